package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// NodeExecution holds the schema definition for the NodeExecution entity.
type NodeExecution struct {
	ent.Schema
}

// Fields of the NodeExecution.
func (NodeExecution) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Unique().
			Immutable(),
		field.String("run_id").
			Immutable().
			Comment("Owning run"),
		field.String("node_key").
			Comment("Stable node identifier within the run's graph"),
		field.String("node_type").
			Optional(),
		field.Int("order").
			Comment("Position within the run; unique per run (I2)"),
		field.Enum("status").
			Values("running", "completed", "failed").
			Default("completed"),
		field.Time("started_at").
			Optional().
			Nillable(),
		field.Time("ended_at").
			Optional().
			Nillable(),
		field.Int64("latency_ms").
			Default(0).
			Comment("Sum of this node's messages' latency_ms (I4)"),
		field.JSON("state_in", map[string]interface{}{}).
			Optional(),
		field.JSON("state_out", map[string]interface{}{}).
			Optional(),
		field.JSON("state_diff", map[string]interface{}{}).
			Optional().
			Comment("{added, removed, modified} over top-level keys; computed when both state_in and state_out are present"),
		field.String("error").
			Optional().
			Nillable(),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}

// Edges of the NodeExecution.
func (NodeExecution) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("run", Run.Type).
			Ref("node_executions").
			Field("run_id").
			Unique().
			Required().
			Immutable(),
		edge.To("messages", Message.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
		edge.To("evaluations", Evaluation.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
	}
}

// Indexes of the NodeExecution.
func (NodeExecution) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("run_id", "order").
			Unique(),
		index.Fields("run_id", "node_key"),
	}
}
