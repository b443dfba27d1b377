package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Evaluation holds the schema definition for the Evaluation entity.
type Evaluation struct {
	ent.Schema
}

// Fields of the Evaluation.
func (Evaluation) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Unique().
			Immutable(),
		field.String("run_id").
			Immutable(),
		field.String("node_execution_id").
			Optional().
			Nillable().
			Immutable(),
		field.String("evaluator").
			Comment("Name/identity of the evaluator (human or automated)"),
		field.Float("score").
			Optional().
			Nillable(),
		field.String("label").
			Optional().
			Nillable(),
		field.Text("comment").
			Optional().
			Nillable(),
		field.Bool("is_automated").
			Default(false),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}

// Edges of the Evaluation.
func (Evaluation) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("run", Run.Type).
			Ref("evaluations").
			Field("run_id").
			Unique().
			Required().
			Immutable(),
		edge.From("node_execution", NodeExecution.Type).
			Ref("evaluations").
			Field("node_execution_id").
			Unique().
			Immutable(),
	}
}

// Indexes of the Evaluation.
func (Evaluation) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("run_id"),
		index.Fields("node_execution_id"),
	}
}
