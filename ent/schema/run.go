package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Run holds the schema definition for the Run entity.
type Run struct {
	ent.Schema
}

// Fields of the Run.
func (Run) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("run_id").
			Unique().
			Immutable(),
		field.String("graph_id").
			Optional(),
		field.String("graph_version").
			Optional(),
		field.String("framework").
			Optional().
			Comment("Agent framework that produced this run (e.g. langgraph)"),
		field.String("agent_id").
			Optional(),
		field.Enum("status").
			Values("running", "completed", "failed").
			Default("completed").
			Comment("Verbatim from ingest payload; defaults to completed when omitted"),
		field.Time("started_at").
			Optional().
			Nillable(),
		field.Time("ended_at").
			Optional().
			Nillable(),
		field.JSON("input_state", map[string]interface{}{}).
			Optional(),
		field.JSON("output_state", map[string]interface{}{}).
			Optional(),
		field.JSON("tags", []string{}).
			Optional(),
		field.Int64("total_tokens").
			Default(0),
		field.Float("total_cost").
			Default(0),
		field.Int64("total_latency_ms").
			Default(0),
		field.String("error").
			Optional().
			Nillable(),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
		field.Time("updated_at").
			Default(time.Now).
			UpdateDefault(time.Now),
	}
}

// Edges of the Run.
func (Run) Edges() []ent.Edge {
	return []ent.Edge{
		edge.To("node_executions", NodeExecution.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
		edge.To("edges", Edge.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
		edge.To("evaluations", Evaluation.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
	}
}

// Indexes of the Run.
func (Run) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("framework"),
		index.Fields("status"),
		index.Fields("agent_id"),
		index.Fields("graph_id"),
		index.Fields("created_at"),
	}
}
