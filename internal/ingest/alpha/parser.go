// Package alpha imports workout history exported from the Alpha Progression
// app. Exports are semicolon-separated blocks: a session header line, then per
// exercise a header (with optional warm-ups) and one line per working set.
package alpha

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	// "Legs · Day 2 · Week 4";"2026-02-19 4:54 h";"1:02 hr"
	sessionLine = regexp.MustCompile(`^"(.+)";"(\d{4}-\d{2}-\d{2}\s+\d+:\d+)\s+h";"(.+)"$`)

	// "1. Hack Squats · Machine · 8 reps[ · modifiers]"[;"WU1 · 37,5 kg · 9 reps<br>..."]
	exerciseLine = regexp.MustCompile(`^"(\d+)\.\s+(.+?)(?:\s+·\s+(\S.*?))?\s+·\s+(\d+)\s+reps(.*?)"(?:;"(.+)")?$`)

	// 1;115;8;1
	setLine = regexp.MustCompile(`^(\d+);([^;]+);(\d+);([^;]*)$`)

	// WU1 · 37,5 kg · 9 reps
	warmupItem = regexp.MustCompile(`WU(\d+)\s+·\s+(.+?)\s+kg\s+·\s+(\d+)\s+reps`)

	// 1:02 hr, 45 min
	durationHM  = regexp.MustCompile(`^(\d+):(\d{2})\s*hr?$`)
	durationMin = regexp.MustCompile(`^(\d+)\s*min$`)
)

const setColumnsHeader = "#;KG;REPS;RIR"

// Set is one line of an export. Weight is the added load when BodyweightPlus
// is set ("+35" means bodyweight plus 35 kg).
type Set struct {
	Number         int
	WeightKg       float64
	BodyweightPlus bool
	Reps           int
	RIR            *float64
}

// Exercise is one exercise block of a session.
type Exercise struct {
	Position   int
	Name       string
	Equipment  string
	TargetReps int
	Warmups    []Set
	Sets       []Set
}

// Session is one exported workout.
type Session struct {
	Title     string
	Start     time.Time
	Duration  time.Duration
	Exercises []Exercise
}

// Workout is the routine name: the title up to the first " · ".
func (s Session) Workout() string {
	name, _, _ := strings.Cut(s.Title, " · ")
	return strings.TrimSpace(name)
}

type parser struct {
	sessions []Session
	session  *Session
	exercise *Exercise
	line     int
}

// Parse reads an Alpha Progression CSV export. Lines that match none of the
// known shapes (notes, app banners) are ignored.
func Parse(r io.Reader) ([]Session, error) {
	p := &parser{}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		p.line++
		if err := p.feed(strings.TrimSpace(sc.Text())); err != nil {
			return nil, fmt.Errorf("line %d: %w", p.line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading export: %w", err)
	}
	p.closeSession()
	return p.sessions, nil
}

func (p *parser) feed(line string) error {
	switch {
	case line == "":
		p.closeSession()
	case line == setColumnsHeader:
	case sessionLine.MatchString(line):
		return p.startSession(sessionLine.FindStringSubmatch(line))
	case exerciseLine.MatchString(line):
		return p.startExercise(exerciseLine.FindStringSubmatch(line))
	case setLine.MatchString(line):
		return p.addSet(setLine.FindStringSubmatch(line))
	}
	return nil
}

func (p *parser) startSession(m []string) error {
	p.closeSession()
	start, err := parseStart(m[2])
	if err != nil {
		return err
	}
	p.session = &Session{Title: m[1], Start: start, Duration: parseDuration(m[3])}
	return nil
}

func (p *parser) startExercise(m []string) error {
	if p.session == nil {
		return fmt.Errorf("exercise %q outside a session", m[2])
	}
	p.closeExercise()

	pos, _ := strconv.Atoi(m[1])
	target, _ := strconv.Atoi(m[4])
	p.exercise = &Exercise{
		Position:   pos,
		Name:       strings.TrimSpace(m[2]),
		Equipment:  strings.TrimSpace(m[3]),
		TargetReps: target,
	}
	if m[6] != "" {
		warmups, err := parseWarmups(m[6])
		if err != nil {
			return err
		}
		p.exercise.Warmups = warmups
	}
	return nil
}

func (p *parser) addSet(m []string) error {
	if p.exercise == nil {
		return fmt.Errorf("set %q outside an exercise", m[0])
	}
	num, _ := strconv.Atoi(m[1])
	weight, bw, err := parseWeight(m[2])
	if err != nil {
		return err
	}
	reps, _ := strconv.Atoi(m[3])
	set := Set{Number: num, WeightKg: weight, BodyweightPlus: bw, Reps: reps}
	if rir := strings.TrimSpace(m[4]); rir != "" {
		v, err := parseDecimal(rir)
		if err != nil {
			return fmt.Errorf("RIR %q: %w", rir, err)
		}
		set.RIR = &v
	}
	p.exercise.Sets = append(p.exercise.Sets, set)
	return nil
}

func (p *parser) closeExercise() {
	if p.exercise != nil {
		p.session.Exercises = append(p.session.Exercises, *p.exercise)
		p.exercise = nil
	}
}

func (p *parser) closeSession() {
	if p.session == nil {
		return
	}
	p.closeExercise()
	p.sessions = append(p.sessions, *p.session)
	p.session = nil
}

// parseStart accepts both "2026-02-19 4:54" and "2026-02-19 16:54".
func parseStart(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02 3:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized session date %q", s)
}

// parseDuration reads "1:02 hr" or "45 min". Unknown shapes give zero.
func parseDuration(s string) time.Duration {
	s = strings.TrimSpace(s)
	if m := durationHM.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[1])
		mins, _ := strconv.Atoi(m[2])
		return time.Duration(h)*time.Hour + time.Duration(mins)*time.Minute
	}
	if m := durationMin.FindStringSubmatch(s); m != nil {
		mins, _ := strconv.Atoi(m[1])
		return time.Duration(mins) * time.Minute
	}
	return 0
}

// parseWarmups reads "WU1 · 37,5 kg · 9 reps<br>WU2 · 72,5 kg · 7 reps".
func parseWarmups(s string) ([]Set, error) {
	var sets []Set
	for _, item := range strings.Split(s, "<br>") {
		m := warmupItem.FindStringSubmatch(item)
		if m == nil {
			continue
		}
		num, _ := strconv.Atoi(m[1])
		weight, bw, err := parseWeight(m[2])
		if err != nil {
			return nil, fmt.Errorf("warm-up %q: %w", item, err)
		}
		reps, _ := strconv.Atoi(m[3])
		sets = append(sets, Set{Number: num, WeightKg: weight, BodyweightPlus: bw, Reps: reps})
	}
	return sets, nil
}

// parseWeight reads "102,5" or the bodyweight-plus form "+35".
func parseWeight(s string) (float64, bool, error) {
	s = strings.TrimSpace(s)
	rest, bw := strings.CutPrefix(s, "+")
	w, err := parseDecimal(rest)
	if err != nil {
		return 0, false, fmt.Errorf("weight %q: %w", s, err)
	}
	return w, bw, nil
}

// parseDecimal reads numbers written with a decimal comma.
func parseDecimal(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
}
