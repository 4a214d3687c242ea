package tracker

import (
	"fmt"

	"github.com/bethropolis/treesync/internal/event"
	"github.com/bethropolis/treesync/internal/logger"
)

// Feature is a capability that depends on change tracking being active.
// Setup and Teardown must be idempotent, and Teardown must never fail;
// Teardown runs automatically before the tracker is disabled.
type Feature struct {
	Name     string
	Setup    func() error
	Teardown func()
}

type featureState struct {
	hookID   event.HandlerID
	teardown func()
}

// EnableFeature enables a dependent feature. If tracking is disabled it is
// enabled first; an enable failure becomes the feature's own failure. If the
// feature's setup fails, its teardown runs and the feature stays disabled
// while tracking remains enabled. On success the feature's teardown is
// registered against the before-disable notification, exactly once per
// feature per enable cycle.
func (t *Tracker) EnableFeature(f Feature) error {
	if f.Name == "" {
		return fmt.Errorf("feature must have a name")
	}

	if t.state != StateEnabled {
		if err := t.Enable(); err != nil {
			return fmt.Errorf("feature %q requires tracking: %w", f.Name, err)
		}
	}

	if _, ok := t.features[f.Name]; ok {
		return nil // already enabled this cycle
	}

	if f.Setup != nil {
		if err := f.Setup(); err != nil {
			if f.Teardown != nil {
				f.Teardown()
			}
			return fmt.Errorf("feature %q setup: %w", f.Name, err)
		}
	}

	teardown := f.Teardown
	id := t.events.Subscribe(event.TypeBeforeDisable, func(event.Event) bool {
		if teardown != nil {
			teardown()
		}
		return false
	})
	t.features[f.Name] = &featureState{hookID: id, teardown: teardown}
	logger.Debugf("tracker: feature %q enabled", f.Name)
	return nil
}

// DisableFeature turns a dependent feature off without touching the tracker
// itself. Unknown names are a no-op.
func (t *Tracker) DisableFeature(name string) {
	fs, ok := t.features[name]
	if !ok {
		return
	}
	t.events.Unsubscribe(event.TypeBeforeDisable, fs.hookID)
	delete(t.features, name)
	if fs.teardown != nil {
		fs.teardown()
	}
	logger.Debugf("tracker: feature %q disabled", name)
}

// FeatureEnabled reports whether the named feature is currently enabled.
func (t *Tracker) FeatureEnabled(name string) bool {
	_, ok := t.features[name]
	return ok
}
