package main

import (
	"errors"
	"fmt"

	"github.com/milk9111/sketchbook/component"
	"github.com/milk9111/sketchbook/prefabs"
	"github.com/milk9111/sketchbook/render"
	"github.com/milk9111/sketchbook/world"
	"go.uber.org/zap"
)

var (
	playerClass = world.NewClass("player", true)
	wispClass   = world.NewClass("wisp", true)
)

// Sound is the part of *audio.Player a kind needs.
type Sound interface {
	IsPlaying() bool
	Rewind() error
	Play()
	SetVolume(volume float64)
	Close() error
}

// SoundLoader opens a sound by assets-relative path.
type SoundLoader func(path string) (Sound, error)

// kind holds what every instance of one class shares: the prefab, the atlas
// and any sounds. Resources are acquired by the first instance and released
// once by the class teardown.
type kind struct {
	class   *world.Class
	spec    *prefabs.ObjectSpec
	atlases *render.Cache
	sounds  SoundLoader
	log     *zap.Logger

	atlas  render.Atlas
	handle render.AtlasHandle
	clips  map[string]Sound
}

func newKind(class *world.Class, spec *prefabs.ObjectSpec, atlases *render.Cache, sounds SoundLoader, classes *world.ClassTable, log *zap.Logger) (*kind, error) {
	if log == nil {
		log = zap.NewNop()
	}
	k := &kind{
		class:   class,
		spec:    spec,
		atlases: atlases,
		sounds:  sounds,
		log:     log.With(zap.String("class", class.Name())),
		clips:   make(map[string]Sound),
	}
	if err := classes.Register(class, k); err != nil {
		return nil, err
	}
	return k, nil
}

// Atlas returns the shared atlas, loading it for the first instance.
func (k *kind) Atlas() (render.Atlas, error) {
	if k.atlas != nil {
		return k.atlas, nil
	}
	atlas, h, err := k.atlases.Acquire(k.spec.Sheet)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", k.class, err)
	}
	k.atlas, k.handle = atlas, h
	return atlas, nil
}

// Loaded reports whether an instance has acquired the atlas.
func (k *kind) Loaded() bool {
	return k.atlas != nil
}

// PlaySound plays sounds/<name>.wav, loading it on first use. Missing sounds
// are logged once and then stay silent.
func (k *kind) PlaySound(name string) {
	clip, ok := k.clips[name]
	if !ok {
		if k.sounds != nil {
			var err error
			clip, err = k.sounds("sounds/" + name + ".wav")
			if err != nil {
				k.log.Warn("sound unavailable", zap.String("sound", name), zap.Error(err))
				clip = nil
			}
		}
		k.clips[name] = clip
	}
	if clip == nil || clip.IsPlaying() {
		return
	}
	if err := clip.Rewind(); err != nil {
		k.log.Debug("sound rewind failed", zap.String("sound", name), zap.Error(err))
		return
	}
	clip.Play()
}

// DisposeStatics releases the atlas and closes the sounds.
func (k *kind) DisposeStatics() error {
	var errs []error
	if k.atlas != nil {
		k.atlases.Release(k.handle)
		k.atlas, k.handle = nil, render.AtlasHandle{}
	}
	for name, clip := range k.clips {
		if clip != nil {
			if err := clip.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close sound %s: %w", name, err))
			}
		}
		delete(k.clips, name)
	}
	k.log.Debug("class statics released")
	return errors.Join(errs...)
}

// visual builds a sprite sheet over the shared atlas and a player carrying
// the prefab's animations.
func (k *kind) visual(events *component.FrameEventEmitter) (*component.SpriteSheet, *component.AnimationPlayer, error) {
	atlas, err := k.Atlas()
	if err != nil {
		return nil, nil, err
	}
	sheet, err := component.NewSpriteSheet(atlas, k.spec.SheetOptions())
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", k.class, err)
	}
	anim := component.NewAnimationPlayer()
	if err := k.spec.Apply(anim, events); err != nil {
		return nil, nil, err
	}
	return sheet, anim, nil
}
