package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Extension holds the schema definition for the Extension entity.
type Extension struct {
	ent.Schema
}

// Fields of the Extension.
func (Extension) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Unique().
			Immutable(),
		field.String("name").
			Unique(),
		field.String("version"),
		field.String("description").
			Optional().
			Nillable(),
		field.Enum("status").
			Values("enabled", "disabled").
			Default("disabled"),
		field.JSON("manifest", map[string]interface{}{}).
			Comment("Full manifest.json document"),
		field.String("install_path"),
		field.Bool("has_backend").
			Default(false),
		field.Bool("has_frontend").
			Default(false),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
		field.Time("updated_at").
			Default(time.Now).
			UpdateDefault(time.Now),
	}
}

// Edges of the Extension.
func (Extension) Edges() []ent.Edge {
	return []ent.Edge{
		edge.To("data", ExtensionData.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
		edge.To("audit_entries", ExtensionNetworkAudit.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
	}
}

// Indexes of the Extension.
func (Extension) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("status"),
	}
}
