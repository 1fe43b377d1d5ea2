// ════════════════════════════════════════════════════════════════════════════════════════════════
// Synapse Processing Core — Local Exerciser
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: Synapse Processing Core
// Component: CLI entrypoint
//
// Description:
//   Phased initialization wiring config parsing, the matrix generator (or a stored connectivity
//   projection), and the tick scheduler together for a local run of the pipeline without real
//   hardware: PHASE 0 loads the config region blob, PHASE 1 generates or loads a connectivity
//   matrix into an in-memory shared store, PHASE 2 builds the scheduler and a static row processor,
//   PHASE 3 drives the simulation loop and reports the telemetry snapshot.
//
// Notes:
//   - Only the static row kernel is wired here: the matrix generator (component K) produces rows in
//     the static layout, and the plastic kernel expects a distinct mutable-region row layout that
//     the generator does not produce. Driving the plastic kernel end-to-end needs a plasticity-aware
//     row store, which is out of scope for this exerciser.
// ════════════════════════════════════════════════════════════════════════════════════════════════

package main

import (
	"flag"
	"math/rand"
	"os"

	"synapsecore/internal/config"
	"synapsecore/internal/connstore"
	"synapsecore/internal/debug"
	"synapsecore/internal/delaybuffer"
	"synapsecore/internal/keylookup"
	"synapsecore/internal/manifest"
	"synapsecore/internal/matrixgen"
	"synapsecore/internal/ringbuffer"
	"synapsecore/internal/scheduler"
	"synapsecore/internal/spikequeue"
	"synapsecore/internal/telemetry"
)

func main() {
	configPath := flag.String("config", "", "path to the config-region blob")
	manifestPath := flag.String("manifest", "", "path to a matrix-generator manifest (mutually exclusive with -store)")
	storePath := flag.String("store", "", "path to a connectivity-store SQLite database")
	projection := flag.String("projection", "", "projection name to load from -store")
	flag.Parse()

	// PHASE 0: load and parse the config-region blob.
	debug.DropMessage("INIT", "loading config region")
	sys, err := loadSystem(*configPath)
	if err != nil {
		debug.DropError("CONFIG_ERROR", err)
		os.Exit(1)
	}
	debug.DropMessage("LOADED", "system region parsed")

	// PHASE 1: generate or load a connectivity matrix into an in-memory shared store.
	cfg, seed, err := loadProjection(*manifestPath, *storePath, *projection)
	if err != nil {
		debug.DropError("MATRIX_ERROR", err)
		os.Exit(1)
	}
	store := make([]uint32, cfg.NumRows*cfg.RowStride())
	matrixgen.Generate(store, cfg, rand.New(rand.NewSource(seed)))
	debug.DropMessage("GENERATED", "matrix written to shared store")

	entries := make([]keylookup.Entry, cfg.NumRows)
	stride := uint32(cfg.RowStride())
	for i := 0; i < cfg.NumRows; i++ {
		entries[i] = keylookup.Entry{
			KeyMin: uint32(i), KeyMax: uint32(i),
			Base: uint32(i) * stride * 4, Stride: stride,
		}
	}
	lookup, err := keylookup.New(entries)
	if err != nil {
		debug.DropError("CONFIG_ERROR", err)
		os.Exit(1)
	}

	// PHASE 2: build the scheduler and its row processor.
	debug.DropMessage("READY", "system initialized")
	queue := spikequeue.New(256)
	for i := 0; i < cfg.NumRows; i++ {
		queue.Push(spikequeue.Key(i))
	}
	ring := ringbuffer.New(3, cfg.NumPost)
	delayBuf := delaybuffer.New(64)
	counters := &telemetry.Counters{}

	host := &localHost{mem: store}
	sched := scheduler.New(host, queue, delayBuf, lookup, ring, scheduler.StaticProcessor{}, counters, sys)

	// PHASE 3: run the simulation loop and report telemetry.
	if err := sched.Run(); err != nil {
		debug.DropError("RUN_ERROR", err)
		os.Exit(1)
	}
	snap := counters.Snapshot()
	debug.DropMessage("TELEMETRY", "run complete")
	debug.DropMessage("SPIKE_QUEUE_OVERFLOW", itoa(snap.SpikeQueueOverflow))
	debug.DropMessage("SPIKE_QUEUE_UNDERFLOW", itoa(snap.SpikeQueueUnderflow))
	debug.DropMessage("DELAY_BUFFER_OVERFLOW", itoa(snap.DelayBufferOverflow))
	debug.DropMessage("RING_SATURATIONS", itoa(snap.RingSaturations))
	debug.DropMessage("KEY_LOOKUP_MISSES", itoa(snap.KeyLookupMisses))
	debug.DropMessage("DMA_FAILURES", itoa(snap.DMAFailures))
}

// loadSystem parses the config-region blob's System region, or returns a minimal built-in one so
// the pipeline can be exercised with no external config file.
func loadSystem(path string) (config.System, error) {
	if path == "" {
		return config.System{TimerPeriodUS: 1000, SimulationTicks: 50}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return config.System{}, err
	}
	blob, err := config.Parse(data)
	if err != nil {
		return config.System{}, err
	}
	return blob.System()
}

// loadProjection resolves a matrixgen.Config either from a named projection in a connectivity
// store, a manifest file's first projection, or (with neither given) a minimal built-in
// projection, returning its RNG seed alongside.
func loadProjection(manifestPath, storePath, projectionName string) (matrixgen.Config, int64, error) {
	if storePath != "" {
		store, err := connstore.Open(storePath)
		if err != nil {
			return matrixgen.Config{}, 0, err
		}
		defer store.Close()
		cfg, err := store.Get(projectionName)
		return cfg, 1, err
	}
	if manifestPath != "" {
		data, err := os.ReadFile(manifestPath)
		if err != nil {
			return matrixgen.Config{}, 0, err
		}
		m, err := manifest.Load(data)
		if err != nil {
			return matrixgen.Config{}, 0, err
		}
		if len(m.Projections) == 0 {
			return matrixgen.Config{}, 0, os.ErrInvalid
		}
		cfg, err := m.Projections[0].Config()
		return cfg, m.Seed, err
	}
	return matrixgen.Config{
		NumRows: 4, MaxRowSynapses: 4, NumPost: 8, WeightFixedPoint: 0,
		Connector:       matrixgen.FixedTotalNumber{N: 2},
		DelayGenerator:  matrixgen.Constant{Value: 1},
		WeightGenerator: matrixgen.Constant{Value: 10},
	}, 1, nil
}

// localHost is a synchronous, word-addressed stand-in for the hardware DMA/host platform, used to
// exercise the scheduler pipeline without real hardware.
type localHost struct {
	mem []uint32
}

func (h *localHost) EmitPacket(key uint32, payload []byte) {}

func (h *localHost) IssueDMARead(address uint32, dst []uint32) scheduler.DMAHandle {
	idx := int(address / 4)
	copy(dst, h.mem[idx:idx+len(dst)])
	return scheduler.DMAHandle(1)
}

func (h *localHost) IssueDMAWrite(address uint32, src []uint32) scheduler.DMAHandle {
	idx := int(address / 4)
	copy(h.mem[idx:idx+len(src)], src)
	return scheduler.DMAHandle(2)
}

func (h *localHost) PollDMA(handle scheduler.DMAHandle) (done, failed bool) { return true, false }
func (h *localHost) ScheduleTimer(periodUS uint32)                          {}
func (h *localHost) Exit(code int)                                          {}

func itoa(v uint64) string {
	if v == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}
