package ports

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/jhoicas/warung-pos/internal/domain"
)

// Colecciones del store compartido.
const (
	PathUsers      = "users"
	PathMenu       = "menu"
	PathCategories = "categories"
	PathOrders     = "orders"
)

// Snapshot valor completo guardado en una ruta en un instante dado.
// Para una colección, Value es un objeto JSON {clave: hijo}.
type Snapshot struct {
	Path   string
	Exists bool
	Value  json.RawMessage
}

// Child hijo de una colección.
type Child struct {
	Key   string
	Value json.RawMessage
}

// Decode deserializa el valor del hijo en v.
func (c Child) Decode(v any) error {
	if err := json.Unmarshal(c.Value, v); err != nil {
		return fmt.Errorf("hijo %s: %w", c.Key, err)
	}
	return nil
}

// Decode deserializa Value en v. Un snapshot inexistente no modifica v.
func (s Snapshot) Decode(v any) error {
	if !s.Exists || len(s.Value) == 0 {
		return nil
	}
	if err := json.Unmarshal(s.Value, v); err != nil {
		return fmt.Errorf("snapshot %s: %w", s.Path, err)
	}
	return nil
}

// Children devuelve los hijos de una colección ordenados por clave.
// Las claves generadas por AppendUnder ordenan por tiempo de creación.
func (s Snapshot) Children() ([]Child, error) {
	if !s.Exists || len(s.Value) == 0 {
		return nil, nil
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(s.Value, &m); err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", s.Path, err)
	}
	out := make([]Child, 0, len(m))
	for k, v := range m {
		out = append(out, Child{Key: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// CollectionSnapshot arma el snapshot de una colección a partir de sus hijos.
func CollectionSnapshot(collection string, children map[string]json.RawMessage) (Snapshot, error) {
	if len(children) == 0 {
		return Snapshot{Path: collection}, nil
	}
	raw, err := json.Marshal(children)
	if err != nil {
		return Snapshot{}, fmt.Errorf("snapshot %s: %w", collection, err)
	}
	return Snapshot{Path: collection, Exists: true, Value: raw}, nil
}

// ChangeHandler recibe el snapshot completo de la ruta suscrita.
// No debe escribir en el store desde el propio callback.
type ChangeHandler func(Snapshot)

// Unsubscribe cancela una suscripción. Es idempotente.
type Unsubscribe func()

// StoreClient puerto de salida hacia el store en tiempo real compartido por las terminales.
// Cada escritura es incondicional sobre una sola ruta: sin control de concurrencia ni reintentos.
// Los fallos de red se devuelven envueltos en domain.ErrConnectivity.
type StoreClient interface {
	// ReadOnce lee una ruta una sola vez; si no existe, Snapshot.Exists es false.
	ReadOnce(ctx context.Context, path string) (Snapshot, error)
	// WriteAt sobrescribe por completo el valor en la ruta.
	WriteAt(ctx context.Context, path string, value any) error
	// MergeAt actualiza solo los campos indicados, sin tocar los hermanos.
	MergeAt(ctx context.Context, path string, fields map[string]any) error
	// RemoveAt elimina la ruta (hoja o colección completa).
	RemoveAt(ctx context.Context, path string) error
	// AppendUnder agrega value bajo la colección con una clave generada y la devuelve.
	AppendUnder(ctx context.Context, path string, value any) (string, error)
	// Subscribe entrega el estado actual de inmediato y luego un snapshot por cada cambio.
	// Las notificaciones de una suscripción se entregan de a una, en orden.
	Subscribe(ctx context.Context, path string, onChange ChangeHandler) (Unsubscribe, error)
}

// ChildPath construye "coleccion/clave".
func ChildPath(collection, key string) string {
	return collection + "/" + key
}

// SplitPath separa una ruta en colección y clave (clave vacía si es una colección).
// Solo se admiten dos niveles.
func SplitPath(path string) (collection, key string, err error) {
	path = strings.Trim(path, "/")
	if path == "" {
		return "", "", fmt.Errorf("%w: ruta vacía", domain.ErrValidation)
	}
	parts := strings.Split(path, "/")
	switch len(parts) {
	case 1:
		return parts[0], "", nil
	case 2:
		if parts[0] == "" || parts[1] == "" {
			return "", "", fmt.Errorf("%w: ruta %q inválida", domain.ErrValidation, path)
		}
		return parts[0], parts[1], nil
	default:
		return "", "", fmt.Errorf("%w: ruta %q con más de dos niveles", domain.ErrValidation, path)
	}
}

// MergeFields aplica fields sobre el objeto JSON existing (campos de primer nivel).
// existing vacío equivale a un objeto nuevo.
func MergeFields(existing json.RawMessage, fields map[string]any) (json.RawMessage, error) {
	obj := map[string]json.RawMessage{}
	if len(existing) > 0 {
		if err := json.Unmarshal(existing, &obj); err != nil {
			return nil, fmt.Errorf("%w: el valor actual no es un objeto", domain.ErrValidation)
		}
		if obj == nil {
			obj = map[string]json.RawMessage{}
		}
	}
	for k, v := range fields {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("%w: campo %s: %v", domain.ErrValidation, k, err)
		}
		obj[k] = raw
	}
	return json.Marshal(obj)
}
