package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Message holds the schema definition for the Message entity.
type Message struct {
	ent.Schema
}

// Fields of the Message.
func (Message) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Unique().
			Immutable(),
		field.String("node_execution_id").
			Immutable(),
		field.Int("order").
			Comment("Unique within the owning NodeExecution (I2)"),
		field.Enum("role").
			Values("system", "user", "assistant", "tool"),
		field.Text("content").
			Optional(),
		field.String("model").
			Optional().
			Nillable(),
		field.String("provider").
			Optional().
			Nillable(),
		field.Int64("input_tokens").
			Optional().
			Nillable(),
		field.Int64("output_tokens").
			Optional().
			Nillable(),
		field.Int64("total_tokens").
			Optional().
			Nillable(),
		field.Float("cost").
			Optional().
			Nillable(),
		field.Int64("latency_ms").
			Optional().
			Nillable(),
		field.JSON("tool_calls", []interface{}{}).
			Optional(),
		field.JSON("tool_results", []interface{}{}).
			Optional(),
		field.JSON("raw_request", map[string]interface{}{}).
			Optional(),
		field.JSON("raw_response", map[string]interface{}{}).
			Optional(),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}

// Edges of the Message.
func (Message) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("node_execution", NodeExecution.Type).
			Ref("messages").
			Field("node_execution_id").
			Unique().
			Required().
			Immutable(),
	}
}

// Indexes of the Message.
func (Message) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("node_execution_id", "order").
			Unique(),
	}
}
