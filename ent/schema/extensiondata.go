package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// ExtensionData holds the schema definition for the ExtensionData entity.
type ExtensionData struct {
	ent.Schema
}

// Fields of the ExtensionData.
func (ExtensionData) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Unique().
			Immutable(),
		field.String("extension_id").
			Immutable(),
		field.String("key"),
		field.JSON("value", map[string]interface{}{}).
			Optional(),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
		field.Time("updated_at").
			Default(time.Now).
			UpdateDefault(time.Now),
	}
}

// Edges of the ExtensionData.
func (ExtensionData) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("extension", Extension.Type).
			Ref("data").
			Field("extension_id").
			Unique().
			Required().
			Immutable(),
	}
}

// Indexes of the ExtensionData.
func (ExtensionData) Indexes() []ent.Index {
	return []ent.Index{
		// (extension_id, key) unique — enforces I5.
		index.Fields("extension_id", "key").
			Unique(),
	}
}
