package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// ExtensionNetworkAudit holds the schema definition for the
// ExtensionNetworkAudit entity. Rows are append-only (I6).
type ExtensionNetworkAudit struct {
	ent.Schema
}

// Fields of the ExtensionNetworkAudit.
func (ExtensionNetworkAudit) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Unique().
			Immutable(),
		field.String("extension_id").
			Immutable(),
		field.String("extension_name").
			Immutable(),
		field.String("target_url").
			Immutable(),
		field.String("method").
			Immutable(),
		field.JSON("request_headers", map[string]interface{}{}).
			Optional().
			Immutable().
			Comment("Redacted before persistence (I7)"),
		field.String("request_body_hash").
			Optional().
			Nillable().
			Immutable(),
		field.Int64("request_body_size").
			Optional().
			Nillable().
			Immutable(),
		field.Int("response_status").
			Optional().
			Nillable().
			Immutable(),
		field.Int64("response_time_ms").
			Optional().
			Nillable().
			Immutable(),
		field.JSON("response_headers", map[string]interface{}{}).
			Optional().
			Immutable().
			Comment("Redacted before persistence (I7)"),
		field.Text("response_body_excerpt").
			Optional().
			Nillable().
			Immutable(),
		field.Int64("response_body_size").
			Optional().
			Nillable().
			Immutable(),
		field.Bool("allowed").
			Immutable(),
		field.String("blocked_reason").
			Optional().
			Nillable().
			Immutable(),
		field.String("error").
			Optional().
			Nillable().
			Immutable(),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}

// Edges of the ExtensionNetworkAudit.
func (ExtensionNetworkAudit) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("extension", Extension.Type).
			Ref("audit_entries").
			Field("extension_id").
			Unique().
			Required().
			Immutable(),
	}
}

// Indexes of the ExtensionNetworkAudit.
func (ExtensionNetworkAudit) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("extension_id", "created_at"),
		index.Fields("allowed"),
	}
}
