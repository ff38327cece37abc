// Command sonify turns a running world's mutation rate into sound,
// adapted from the teacher's APU pulse-channel output: instead of decoding
// square/triangle channel registers, it drives portaudio's callback buffer
// from a channel fed by SET_DOT/MOVE_DOT event counts, one tone burst per
// bus event.
package main

import (
	"flag"
	"math"

	"github.com/golang/glog"
	"github.com/gordonklaus/portaudio"

	"github.com/latticevm/latticevm/internal/chem"
)

const sampleRate = 44100

// sonifier renders one short tone burst per mutation event into a
// ring-buffered channel a portaudio callback drains every output sample.
type sonifier struct {
	stream  *portaudio.Stream
	channel chan float32
}

func newSonifier() *sonifier {
	return &sonifier{channel: make(chan float32, sampleRate)}
}

func (s *sonifier) start() error {
	if err := portaudio.Initialize(); err != nil {
		return err
	}
	cb := func(out []float32) {
		for i := range out {
			select {
			case x := <-s.channel:
				out[i] = x * 0.05
			default:
				out[i] = 0
			}
		}
	}
	stream, err := portaudio.OpenDefaultStream(0, 2, sampleRate, 0, cb)
	if err != nil {
		return err
	}
	s.stream = stream
	return stream.Start()
}

func (s *sonifier) terminate() {
	portaudio.Terminate()
	s.stream.Close()
}

// burst enqueues a short tone burst at freq, amplitude-enveloped so
// consecutive bursts don't click, so mov/fix/spl/if activity is audibly
// distinguishable by pitch.
func (s *sonifier) burst(freq float32) {
	const n = 4000 // ~90ms at sampleRate
	phaseInc := 2 * math.Pi * float64(freq) / float64(sampleRate)
	for i := 0; i < n; i++ {
		envelope := float32(1.0)
		if i > n/4 {
			envelope = float32(n-i) / float32(n*3/4)
		}
		sample := float32(math.Sin(phaseInc*float64(i))) * envelope
		select {
		case s.channel <- sample:
		default:
			return
		}
	}
}

func typeFreq(a chem.Atom) float32 {
	switch chem.GetType(a) {
	case chem.TypeMov:
		return 440
	case chem.TypeFix:
		return 554
	case chem.TypeSpl:
		return 659
	case chem.TypeIf:
		return 880
	default:
		return 220
	}
}

func main() {
	configPath := flag.String("config", "", "path to a JSON world config")
	frameDelay := flag.Duration("frame-delay", 0, "sleep between ticks")
	flag.Parse()

	cfg := chem.DefaultConfig()
	if *configPath != "" {
		cfg = chem.LoadConfig(*configPath)
	}
	core := chem.NewCore(cfg)

	snd := newSonifier()
	if err := snd.start(); err != nil {
		glog.Fatalln(err)
	}
	defer snd.terminate()

	core.Subscribe(chem.EventSetDot, func(p chem.EventParam) { snd.burst(typeFreq(p.Atom)) })
	core.Subscribe(chem.EventMoveDot, func(p chem.EventParam) { snd.burst(typeFreq(p.Atom)) })

	core.RunLoop(*frameDelay)
}
