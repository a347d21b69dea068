package platform

import (
	"github.com/kavia-common/simple-notes-app-45797-45806/pkg/core"
)

// New initializes the storage and wires the note store on top of it.
//
//	svc, err := platform.New("./notes", platform.WithAdapter("bolt"))
//
// The URI argument is adapter-specific (e.g., directory for 'fs', database file for 'sqlite').
func New(uri string, opts ...Option) (*core.Service, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	serializer, err := serializerFor(o)
	if err != nil {
		return nil, err
	}

	storage, err := initStorage(uri, o)
	if err != nil {
		return nil, err
	}

	serviceOpts := []core.ServiceOption{
		core.WithKey(o.key),
		core.WithSerializer(serializer),
		core.WithReadOnly(readOnly(o)),
	}
	if o.logger != nil {
		serviceOpts = append(serviceOpts, core.WithLogger(o.logger))
	}
	serviceOpts = append(serviceOpts, o.serviceOpts...)

	return core.NewService(storage, serviceOpts...), nil
}
