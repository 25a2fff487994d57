package layers

import (
	"errors"
	"fmt"
	"log/slog"

	"stationmap/internal/engine"
	"stationmap/internal/logger"
	"stationmap/internal/registry"
	"stationmap/internal/view"
)

var ErrAssetLoad = errors.New("asset load failed")

// Controller wires a view.Store to an engine it owns for its lifetime.
type Controller struct {
	reg   *registry.Registry
	store *view.Store
	eng   engine.Engine
	sync  *Synchronizer
	bind  *Binder
	log   *slog.Logger

	readyID     engine.HandlerID
	unsubscribe func()

	icon    *engine.Image
	iconErr error
	closed  bool
}

func NewController(reg *registry.Registry, store *view.Store, eng engine.Engine, log *slog.Logger) *Controller {
	if log == nil {
		log = logger.L()
	}
	c := &Controller{
		reg:   reg,
		store: store,
		eng:   eng,
		sync:  NewSynchronizer(reg, eng, log),
		bind:  NewBinder(reg, eng, log),
		log:   log,
	}
	c.readyID = eng.On(engine.EventReady, "", func(engine.Event) { store.MarkEngineReady() })
	c.unsubscribe = store.Subscribe(c.onChange)
	return c
}

func (c *Controller) onChange(prev, next view.State) {
	if !next.EngineReady {
		return
	}
	if !prev.EngineReady {
		c.sync.Setup(next)
		c.addPointLayers(next)
		c.sync.Sync(next)
		c.bind.Bind(next)
		c.log.Info("engine ready", "year", next.ActiveYear, "mode", next.Mode.String())
		return
	}
	c.sync.Sync(next)
	if prev.ActiveYear != next.ActiveYear || prev.Mode != next.Mode {
		c.bind.Bind(next)
	}
}

func (c *Controller) addPointLayers(st view.State) {
	if c.icon == nil {
		return
	}
	if err := c.eng.AddImage(MarkerImage, *c.icon); err != nil {
		c.log.Error("add image failed", "image", MarkerImage, "err", err)
		return
	}
	c.sync.AddPointLayers(st)
}

// IconLoaded receives the result of the asynchronous marker load. On
// failure point layers are never created; heatmap layers are unaffected.
func (c *Controller) IconLoaded(img engine.Image, err error) {
	if c.closed {
		return
	}
	if err != nil {
		c.iconErr = fmt.Errorf("%w: marker: %v", ErrAssetLoad, err)
		c.log.Error("marker icon unavailable, point layers skipped", "err", c.iconErr)
		return
	}
	c.icon = &img
	if st := c.store.State(); st.EngineReady {
		c.addPointLayers(st)
		c.sync.Sync(st)
		c.bind.Bind(st)
	}
}

// IconErr is the asset failure, if any.
func (c *Controller) IconErr() error { return c.iconErr }

func (c *Controller) Binder() *Binder { return c.bind }

// Close detaches every handler and destroys the engine.
func (c *Controller) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.bind.Detach()
	c.unsubscribe()
	c.eng.Off(c.readyID)
	c.eng.Destroy()
}
