// Package sound plays the session sounds through the system audio output.
//
// Windup and ding are synthesized one-shot sounds. The ambience loops run
// for the whole work interval at their configured volume; a volume change
// applies to loops that are already playing.
package sound

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"

	"tomatobar/internal/core/timekeeper"
	"tomatobar/internal/log"
)

const (
	sampleRate     = beep.SampleRate(44100)
	bufferDuration = 100 * time.Millisecond
)

// Volumes holds per-sound volumes in [0, 1].
type Volumes struct {
	Windup  float64
	Ding    float64
	Ticking float64
	Dark    float64
	Rainy   float64
}

func (volumes Volumes) ambience(kind timekeeper.AmbienceKind) float64 {
	switch kind {
	case timekeeper.AmbienceTicking:
		return volumes.Ticking
	case timekeeper.AmbienceDark:
		return volumes.Dark
	case timekeeper.AmbienceRainy:
		return volumes.Rainy
	default:
		return 0
	}
}

// output mixes streams into the audio device.
type output interface {
	Play(streamers ...beep.Streamer)
	Lock()
	Unlock()
}

type speakerOutput struct{}

func (speakerOutput) Play(streamers ...beep.Streamer) { speaker.Play(streamers...) }
func (speakerOutput) Lock()                           { speaker.Lock() }
func (speakerOutput) Unlock()                         { speaker.Unlock() }

// mute is used when no audio device is available.
type mute struct{}

func (mute) Play(...beep.Streamer) {}
func (mute) Lock()                 {}
func (mute) Unlock()               {}

var (
	speakerOnce sync.Once
	speakerErr  error
)

func openSpeaker() (output, error) {
	speakerOnce.Do(func() {
		speakerErr = speaker.Init(sampleRate, sampleRate.N(bufferDuration))
	})
	if speakerErr != nil {
		return nil, fmt.Errorf("init speaker: %w", speakerErr)
	}
	return speakerOutput{}, nil
}

type loop struct {
	ctrl *beep.Ctrl
	gain *effects.Gain
}

// Player implements timekeeper.Audio.
type Player struct {
	mu      sync.Mutex
	out     output
	rate    beep.SampleRate
	volumes Volumes
	loops   map[timekeeper.AmbienceKind]*loop
}

// NewPlayer opens the default audio device. Without one the player stays
// silent but keeps its state.
func NewPlayer(volumes Volumes) *Player {
	out, err := openSpeaker()
	if err != nil {
		log.Warn(log.CatSound, "audio output unavailable, sounds are muted", "error", err)
		out = mute{}
	}
	return newPlayer(out, sampleRate, volumes)
}

func newPlayer(out output, rate beep.SampleRate, volumes Volumes) *Player {
	return &Player{
		out:     out,
		rate:    rate,
		volumes: clampVolumes(volumes),
		loops:   make(map[timekeeper.AmbienceKind]*loop),
	}
}

// SetVolumes applies new volumes, including to the loops that are playing.
func (player *Player) SetVolumes(volumes Volumes) {
	player.mu.Lock()
	defer player.mu.Unlock()
	player.volumes = clampVolumes(volumes)

	player.out.Lock()
	for kind, active := range player.loops {
		active.gain.Gain = gainFor(player.volumes.ambience(kind))
	}
	player.out.Unlock()
	log.Debug(log.CatSound, "volumes changed", "playing", len(player.loops))
}

func (player *Player) PlayStartSound() {
	player.mu.Lock()
	volume := player.volumes.Windup
	player.mu.Unlock()
	player.playOnce("windup", windupSound(player.rate), volume)
}

func (player *Player) PlayEndSound() {
	player.mu.Lock()
	volume := player.volumes.Ding
	player.mu.Unlock()

	streamer, err := dingSound(player.rate)
	if err != nil {
		log.Warn(log.CatSound, "play sound", "sound", "ding", "error", err)
		return
	}
	player.playOnce("ding", streamer, volume)
}

func (player *Player) playOnce(name string, streamer beep.Streamer, volume float64) {
	if volume == 0 {
		return
	}
	player.out.Play(&effects.Gain{Streamer: streamer, Gain: gainFor(volume)})
	log.Debug(log.CatSound, "sound played", "sound", name, "volume", volume)
}

// StartAmbience starts the loop for kind, even at zero volume, so that a
// later volume change makes it audible.
func (player *Player) StartAmbience(kind timekeeper.AmbienceKind) {
	player.mu.Lock()
	defer player.mu.Unlock()
	if _, ok := player.loops[kind]; ok {
		return
	}
	streamer := ambienceSound(kind, player.rate)
	if streamer == nil {
		return
	}

	volume := player.volumes.ambience(kind)
	gain := &effects.Gain{Streamer: streamer, Gain: gainFor(volume)}
	active := &loop{ctrl: &beep.Ctrl{Streamer: gain}, gain: gain}
	player.loops[kind] = active
	player.out.Play(active.ctrl)
	log.Debug(log.CatSound, "ambience started", "kind", kind, "volume", volume)
}

func (player *Player) StopAmbience(kind timekeeper.AmbienceKind) {
	player.mu.Lock()
	defer player.mu.Unlock()
	active, ok := player.loops[kind]
	if !ok {
		return
	}
	delete(player.loops, kind)

	// A Ctrl without a streamer is drained and dropped by the mixer.
	player.out.Lock()
	active.ctrl.Streamer = nil
	player.out.Unlock()
	log.Debug(log.CatSound, "ambience stopped", "kind", kind)
}

// Playing lists the active loops in name order.
func (player *Player) Playing() []timekeeper.AmbienceKind {
	player.mu.Lock()
	defer player.mu.Unlock()
	kinds := make([]timekeeper.AmbienceKind, 0, len(player.loops))
	for kind := range player.loops {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// gainFor converts a linear volume to an effects.Gain factor, which scales
// samples by 1+gain.
func gainFor(volume float64) float64 {
	return volume - 1
}

func clampVolumes(volumes Volumes) Volumes {
	clamp := func(value float64) float64 {
		switch {
		case value < 0:
			return 0
		case value > 1:
			return 1
		default:
			return value
		}
	}
	return Volumes{
		Windup:  clamp(volumes.Windup),
		Ding:    clamp(volumes.Ding),
		Ticking: clamp(volumes.Ticking),
		Dark:    clamp(volumes.Dark),
		Rainy:   clamp(volumes.Rainy),
	}
}
