package score

import (
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const ticksPerQuarter = 960

const percussionChannel = 9

// channelFor cycles instruments through the 15 melodic MIDI channels,
// skipping the General MIDI percussion channel.
func channelFor(idx int) uint8 {
	ch := idx % 15
	if ch >= percussionChannel {
		ch++
	}
	return uint8(ch)
}

type trackEvent struct {
	tick uint32
	off  bool
	msg  midi.Message
}

// WriteSMF writes the score as a format-1 standard MIDI file: the initial
// tempo on the first track, then one track per instrument carrying its name,
// program change, and note events.
func (s *Score) WriteSMF(w io.Writer) error {
	doc := smf.New()
	doc.TimeFormat = smf.MetricTicks(ticksPerQuarter)

	tempo := s.Tempo
	if tempo <= 0 {
		tempo = 120
	}
	ticks := smf.MetricTicks(ticksPerQuarter)

	if len(s.Instruments) == 0 {
		var tr smf.Track
		tr.Add(0, smf.MetaTempo(tempo))
		tr.Close(0)
		doc.Add(tr)
		_, err := doc.WriteTo(w)
		return err
	}

	for i, inst := range s.Instruments {
		var tr smf.Track
		if i == 0 {
			tr.Add(0, smf.MetaTempo(tempo))
		}
		if inst.Name != "" {
			tr.Add(0, smf.MetaTrackSequenceName(inst.Name))
		}
		ch := channelFor(i)
		if inst.Program < 0 || inst.Program > 127 {
			return fmt.Errorf("instrument %d: program %d out of range", i, inst.Program)
		}
		tr.Add(0, midi.ProgramChange(ch, uint8(inst.Program)))

		evs := make([]trackEvent, 0, len(inst.Notes)*2)
		for _, n := range inst.Notes {
			if n.Pitch < 0 || n.Pitch > 127 {
				return fmt.Errorf("instrument %d: pitch %d out of range", i, n.Pitch)
			}
			on := ticks.Ticks(tempo, time.Duration(n.Start*float64(time.Second)))
			off := ticks.Ticks(tempo, time.Duration(n.End*float64(time.Second)))
			if off <= on {
				off = on + 1
			}
			evs = append(evs,
				trackEvent{tick: on, msg: midi.NoteOn(ch, uint8(n.Pitch), uint8(n.Velocity))},
				trackEvent{tick: off, off: true, msg: midi.NoteOff(ch, uint8(n.Pitch))},
			)
		}
		// NoteOff sorts before NoteOn at the same tick so retriggered pitches
		// are released before they restart.
		sort.SliceStable(evs, func(a, b int) bool {
			if evs[a].tick != evs[b].tick {
				return evs[a].tick < evs[b].tick
			}
			return evs[a].off && !evs[b].off
		})

		var last uint32
		for _, ev := range evs {
			tr.Add(ev.tick-last, ev.msg)
			last = ev.tick
		}
		tr.Close(0)
		doc.Add(tr)
	}

	_, err := doc.WriteTo(w)
	return err
}

// WriteSMFFile writes the score to path as a standard MIDI file.
func (s *Score) WriteSMFFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return s.WriteSMF(f)
}

// ReadSMF parses a standard MIDI file. Note on/off pairs are matched per
// channel and key with absolute times derived from the tempo map; tracks
// become instruments in file order.
func ReadSMF(r io.Reader) (*Score, error) {
	sc := &Score{Tempo: 120}

	type noteKey struct {
		ch, key uint8
	}
	type openNote struct {
		start    float64
		velocity int
	}

	insts := make(map[int]*Instrument)
	open := make(map[int]map[noteKey]openNote)
	var order []int

	instFor := func(trackNo int) *Instrument {
		if inst, ok := insts[trackNo]; ok {
			return inst
		}
		inst := &Instrument{}
		insts[trackNo] = inst
		open[trackNo] = make(map[noteKey]openNote)
		order = append(order, trackNo)
		return inst
	}

	rd := smf.ReadTracksFrom(r)
	rd.Do(func(te smf.TrackEvent) {
		t := float64(te.AbsMicroSeconds) / 1e6

		var (
			ch, key, vel uint8
			prog         uint8
			name         string
			bpm          float64
		)
		switch {
		case te.Message.GetNoteStart(&ch, &key, &vel):
			instFor(te.TrackNo)
			open[te.TrackNo][noteKey{ch, key}] = openNote{start: t, velocity: int(vel)}
		case te.Message.GetNoteEnd(&ch, &key):
			inst := instFor(te.TrackNo)
			k := noteKey{ch, key}
			if on, ok := open[te.TrackNo][k]; ok {
				end := t
				if end <= on.start {
					end = on.start + 1e-4
				}
				inst.Notes = append(inst.Notes, Note{
					Pitch:    int(key),
					Velocity: on.velocity,
					Start:    on.start,
					End:      end,
				})
				delete(open[te.TrackNo], k)
			}
		case te.Message.GetProgramChange(&ch, &prog):
			instFor(te.TrackNo).Program = int(prog)
		case te.Message.GetMetaTrackName(&name):
			instFor(te.TrackNo).Name = name
		case te.Message.GetMetaTempo(&bpm):
			sc.Tempo = bpm
		}
	})
	if err := rd.Error(); err != nil {
		return nil, err
	}

	sort.Ints(order)
	for _, trackNo := range order {
		sc.Instruments = append(sc.Instruments, *insts[trackNo])
	}
	return sc, nil
}

// ReadSMFFile parses the standard MIDI file at path.
func ReadSMFFile(path string) (*Score, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadSMF(f)
}
