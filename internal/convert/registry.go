package convert

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/banshee-data/livox-pointcloud/internal/foxglove"
	"github.com/banshee-data/livox-pointcloud/internal/livox"
	"github.com/banshee-data/livox-pointcloud/internal/monitoring"
)

var (
	// ErrInvalidRegistration is returned for registrations missing a schema
	// name or converter.
	ErrInvalidRegistration = errors.New("invalid converter registration")
	// ErrDuplicateConverter is returned when a schema pair is registered twice.
	ErrDuplicateConverter = errors.New("converter already registered")
	// ErrNoConverter is returned by Convert for an unknown schema pair.
	ErrNoConverter = errors.New("no converter registered")
	// ErrUnexpectedMessageType is returned when a message does not have the
	// Go type the converter was registered for.
	ErrUnexpectedMessageType = errors.New("unexpected message type")
)

// Converter transforms one decoded message into the target schema.
type Converter func(msg any) (any, error)

// Registration declares a converter between two named schemas.
type Registration struct {
	FromSchemaName string
	ToSchemaName   string
	Converter      Converter
}

type schemaPair struct {
	from, to string
}

// Registry holds converters keyed by (from, to) schema names.
// It is safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	converters map[schemaPair]Converter
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{converters: make(map[schemaPair]Converter)}
}

// RegisterMessageConverter adds reg to the registry.
func (r *Registry) RegisterMessageConverter(reg Registration) error {
	if reg.FromSchemaName == "" || reg.ToSchemaName == "" {
		return fmt.Errorf("%w: schema names must be non-empty", ErrInvalidRegistration)
	}
	if reg.Converter == nil {
		return fmt.Errorf("%w: nil converter for %s -> %s", ErrInvalidRegistration, reg.FromSchemaName, reg.ToSchemaName)
	}

	key := schemaPair{from: reg.FromSchemaName, to: reg.ToSchemaName}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.converters[key]; exists {
		return fmt.Errorf("%w: %s -> %s", ErrDuplicateConverter, key.from, key.to)
	}
	r.converters[key] = reg.Converter
	monitoring.Logf("registered converter %s -> %s", key.from, key.to)
	return nil
}

// Convert runs the converter registered for (from, to) on msg.
func (r *Registry) Convert(from, to string, msg any) (any, error) {
	r.mu.RLock()
	fn, ok := r.converters[schemaPair{from: from, to: to}]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s -> %s", ErrNoConverter, from, to)
	}
	return fn(msg)
}

// Registrations lists every registered converter sorted by schema names.
func (r *Registry) Registrations() []Registration {
	r.mu.RLock()
	regs := make([]Registration, 0, len(r.converters))
	for k, fn := range r.converters {
		regs = append(regs, Registration{FromSchemaName: k.from, ToSchemaName: k.to, Converter: fn})
	}
	r.mu.RUnlock()

	sort.Slice(regs, func(i, j int) bool {
		if regs[i].FromSchemaName != regs[j].FromSchemaName {
			return regs[i].FromSchemaName < regs[j].FromSchemaName
		}
		return regs[i].ToSchemaName < regs[j].ToSchemaName
	})
	return regs
}

// Register adapts a typed transform into a Converter and registers it.
// Pointer messages of type *In are dereferenced.
func Register[In, Out any](r *Registry, from, to string, fn func(In) Out) error {
	if fn == nil {
		return fmt.Errorf("%w: nil converter for %s -> %s", ErrInvalidRegistration, from, to)
	}
	return r.RegisterMessageConverter(Registration{
		FromSchemaName: from,
		ToSchemaName:   to,
		Converter: func(msg any) (any, error) {
			switch m := msg.(type) {
			case In:
				return fn(m), nil
			case *In:
				if m != nil {
					return fn(*m), nil
				}
			}
			var want In
			return nil, fmt.Errorf("%w: %s converter wants %T, got %T", ErrUnexpectedMessageType, from, want, msg)
		},
	})
}

// Activate registers every converter this module provides.
func Activate(r *Registry) error {
	return Register(r, livox.SchemaName, foxglove.SchemaName, LivoxToPointCloud)
}
