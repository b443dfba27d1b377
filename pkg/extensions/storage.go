package extensions

import (
	"context"
	"fmt"

	"github.com/agentdeck/agentdeck/ent"
	"github.com/agentdeck/agentdeck/ent/extension"
	"github.com/agentdeck/agentdeck/ent/extensiondata"
	"github.com/agentdeck/agentdeck/pkg/services"
	"github.com/google/uuid"
)

// Storage is the per-extension key/value store (spec.md §4.4). Each
// operation is a single-row transaction — no multi-key atomicity is
// offered, matching original_source's ExtensionStorage.
type Storage struct {
	client *ent.Client
}

// NewStorage constructs a Storage over an Ent client.
func NewStorage(client *ent.Client) *Storage {
	return &Storage{client: client}
}

func (s *Storage) extensionID(ctx context.Context, name string) (string, error) {
	ext, err := s.client.Extension.Query().Where(extension.NameEQ(name)).Only(ctx)
	if err != nil {
		if ent.IsNotFound(err) {
			return "", fmt.Errorf("%w: extension %q", services.ErrNotFound, name)
		}
		return "", fmt.Errorf("resolve extension %q: %w", name, err)
	}
	return ext.ID, nil
}

// Get returns the stored value for key, or nil if absent.
func (s *Storage) Get(ctx context.Context, extensionName, key string) (any, error) {
	extID, err := s.extensionID(ctx, extensionName)
	if err != nil {
		return nil, err
	}

	entry, err := s.client.ExtensionData.Query().
		Where(extensiondata.ExtensionIDEQ(extID), extensiondata.KeyEQ(key)).
		Only(ctx)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get extension data: %w", err)
	}
	return fromValueMap(entry.Value), nil
}

// Set upserts the value for key.
func (s *Storage) Set(ctx context.Context, extensionName, key string, value any) error {
	extID, err := s.extensionID(ctx, extensionName)
	if err != nil {
		return err
	}

	existing, err := s.client.ExtensionData.Query().
		Where(extensiondata.ExtensionIDEQ(extID), extensiondata.KeyEQ(key)).
		Only(ctx)
	switch {
	case ent.IsNotFound(err):
		_, err := s.client.ExtensionData.Create().
			SetID(uuid.New().String()).
			SetExtensionID(extID).
			SetKey(key).
			SetValue(toValueMap(value)).
			Save(ctx)
		if err != nil {
			return fmt.Errorf("create extension data: %w", err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("query extension data: %w", err)
	default:
		if _, err := s.client.ExtensionData.UpdateOneID(existing.ID).
			SetValue(toValueMap(value)).
			Save(ctx); err != nil {
			return fmt.Errorf("update extension data: %w", err)
		}
		return nil
	}
}

// Delete removes key, reporting whether a row was deleted.
func (s *Storage) Delete(ctx context.Context, extensionName, key string) (bool, error) {
	extID, err := s.extensionID(ctx, extensionName)
	if err != nil {
		return false, err
	}

	n, err := s.client.ExtensionData.Delete().
		Where(extensiondata.ExtensionIDEQ(extID), extensiondata.KeyEQ(key)).
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("delete extension data: %w", err)
	}
	return n > 0, nil
}

// List returns keys for the extension, optionally filtered by prefix.
func (s *Storage) List(ctx context.Context, extensionName, prefix string) ([]string, error) {
	extID, err := s.extensionID(ctx, extensionName)
	if err != nil {
		return nil, err
	}

	q := s.client.ExtensionData.Query().Where(extensiondata.ExtensionIDEQ(extID))
	if prefix != "" {
		q = q.Where(extensiondata.KeyHasPrefix(prefix))
	}

	entries, err := q.Order(ent.Asc(extensiondata.FieldKey)).All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list extension data: %w", err)
	}

	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		keys = append(keys, e.Key)
	}
	return keys, nil
}

// GetAll returns every key/value pair for the extension, optionally
// filtered by prefix.
func (s *Storage) GetAll(ctx context.Context, extensionName, prefix string) (map[string]any, error) {
	extID, err := s.extensionID(ctx, extensionName)
	if err != nil {
		return nil, err
	}

	q := s.client.ExtensionData.Query().Where(extensiondata.ExtensionIDEQ(extID))
	if prefix != "" {
		q = q.Where(extensiondata.KeyHasPrefix(prefix))
	}

	entries, err := q.Order(ent.Asc(extensiondata.FieldKey)).All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list extension data: %w", err)
	}

	out := make(map[string]any, len(entries))
	for _, e := range entries {
		out[e.Key] = fromValueMap(e.Value)
	}
	return out, nil
}

// Clear deletes every key for the extension and reports how many were removed.
func (s *Storage) Clear(ctx context.Context, extensionName string) (int, error) {
	extID, err := s.extensionID(ctx, extensionName)
	if err != nil {
		return 0, err
	}

	n, err := s.client.ExtensionData.Delete().
		Where(extensiondata.ExtensionIDEQ(extID)).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("clear extension data: %w", err)
	}
	return n, nil
}

// valueEnvelopeKey is the reserved field every stored value is wrapped
// under, regardless of its shape. Always wrapping (rather than only
// wrapping non-map values) keeps a genuinely-stored map like
// {"value": 42} from being mistaken for a wrapped scalar on read.
const valueEnvelopeKey = "$value"

// toValueMap adapts an arbitrary JSON-serializable value to the
// map[string]any shape ExtensionData.value is declared as.
func toValueMap(value any) map[string]any {
	return map[string]any{valueEnvelopeKey: value}
}

// fromValueMap reverses toValueMap.
func fromValueMap(stored any) any {
	m, ok := stored.(map[string]any)
	if !ok {
		return stored
	}
	return m[valueEnvelopeKey]
}
