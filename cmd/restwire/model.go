// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/xml"
	"net/http"
	"strconv"
	"sync"

	"github.com/gorilla/mux"
	"github.com/xmidt-org/restwire"
	"github.com/xmidt-org/restwire/connector"
	"github.com/xmidt-org/restwire/representation"
	"github.com/xmidt-org/restwire/restwirehost"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// VersionHeader carries the version of the model in a response.
const VersionHeader = "X-Model-Version"

// Model is the sample object served in every supported representation.
type Model struct {
	XMLName     xml.Name `xml:"model" mapstructure:"-"`
	Name        string   `xml:"name,attr"`
	Description string   `xml:"description,omitempty"`
	Version     int      `xml:"version"`
}

// ModelStore is an in-memory set of models, keyed by name.
type ModelStore struct {
	lock   sync.RWMutex
	models map[string]Model
}

// NewModelStore creates a store seeded with models.
func NewModelStore(models ...Model) *ModelStore {
	ms := &ModelStore{
		models: make(map[string]Model, len(models)),
	}

	for _, m := range models {
		ms.Put(m)
	}

	return ms
}

// Get returns the named model.
func (ms *ModelStore) Get(name string) (Model, bool) {
	ms.lock.RLock()
	m, ok := ms.models[name]
	ms.lock.RUnlock()
	return m, ok
}

// Put stores a model under its name.
func (ms *ModelStore) Put(m Model) {
	m.XMLName = xml.Name{Local: "model"}
	ms.lock.Lock()
	ms.models[m.Name] = m
	ms.lock.Unlock()
}

// ModelStoreIn is the set of dependencies for a ModelStore.
type ModelStoreIn struct {
	fx.In

	// Models seeds the store.  These come from the models configuration key.
	Models []Model `name:"models" optional:"true"`
}

func provideModelStore(in ModelStoreIn) *ModelStore {
	return NewModelStore(in.Models...)
}

// ModelHandler serves the models of a store.  GET writes the negotiated
// representation, PUT parses the request body in any supported format.
type ModelHandler struct {
	Store  *ModelStore
	Logger *zap.Logger
}

func (mh ModelHandler) ServeHTTP(response http.ResponseWriter, request *http.Request) {
	name := mux.Vars(request)["name"]
	switch request.Method {
	case http.MethodGet, http.MethodHead:
		mh.get(response, request, name)

	case http.MethodPut:
		mh.put(response, request, name)

	default:
		response.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (mh ModelHandler) get(response http.ResponseWriter, request *http.Request, name string) {
	m, ok := mh.Store.Get(name)
	if !ok {
		response.WriteHeader(http.StatusNotFound)
		return
	}

	mt, ok := restwirehost.MediaTypeFrom(request.Context())
	if !ok {
		mt = representation.ApplicationXML
	}

	cr, _ := connector.FromContext(request.Context())
	connector.AddHeader(cr, VersionHeader, strconv.Itoa(m.Version))

	if err := representation.New(mt, m).WriteResponse(response, http.StatusOK); err != nil {
		mh.Logger.Error("unable to write model", zap.String("name", name), zap.Error(err))
		response.WriteHeader(http.StatusInternalServerError)
	}
}

func (mh ModelHandler) put(response http.ResponseWriter, request *http.Request, name string) {
	src, err := representation.FromRequest(request)
	if err != nil {
		response.WriteHeader(http.StatusUnsupportedMediaType)
		return
	}

	if !representation.IsXML(src.MediaType()) {
		response.WriteHeader(http.StatusUnsupportedMediaType)
		return
	}

	m, err := representation.Parse[Model](src).Object()
	if err != nil {
		mh.Logger.Debug("unable to parse model", zap.String("name", name), zap.Error(err))
		response.WriteHeader(http.StatusBadRequest)
		return
	}

	m.Name = name
	mh.Store.Put(m)
	mh.Logger.Info("model stored", zap.String("name", name), zap.Int("version", m.Version))
	response.WriteHeader(http.StatusNoContent)
}

// ModelHandlerIn is the set of dependencies for the model handler.
type ModelHandlerIn struct {
	fx.In

	Store  *ModelStore
	Logger *zap.Logger `optional:"true"`
}

// ModelHandlerOut puts the model handler into the host handler group.
type ModelHandlerOut struct {
	fx.Out

	Handler restwirehost.NamedHandler `group:"restwire.handlers"`
}

func provideModelHandler(in ModelHandlerIn) ModelHandlerOut {
	return ModelHandlerOut{
		Handler: restwirehost.NamedHandler{
			Name: "model",
			Handler: ModelHandler{
				Store:  in.Store,
				Logger: restwire.LoggerOrNop(in.Logger).Named("model"),
			},
		},
	}
}

// ModelModule wires the model store and handler.
func ModelModule() fx.Option {
	return fx.Module(
		"model",
		restwire.ProvideKey[[]Model]("models"),
		fx.Provide(
			provideModelStore,
			provideModelHandler,
		),
	)
}
