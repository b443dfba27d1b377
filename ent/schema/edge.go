package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Edge holds the schema definition for the Edge entity (a recorded
// transition between two node_keys within a Run).
type Edge struct {
	ent.Schema
}

// Fields of the Edge.
func (Edge) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Unique().
			Immutable(),
		field.String("run_id").
			Immutable(),
		field.String("from_node").
			Comment("node_key, not an id"),
		field.String("to_node").
			Comment("node_key, not an id"),
		field.String("condition_label").
			Optional().
			Nillable(),
		field.Int("order"),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}

// Edges of the Edge entity.
func (Edge) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("run", Run.Type).
			Ref("edges").
			Field("run_id").
			Unique().
			Required().
			Immutable(),
	}
}

// Indexes of the Edge entity.
func (Edge) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("run_id", "order"),
	}
}
