// Package osuchart parses the `.osu` beatmap text format into the
// internal/chart representation the difficulty pipeline consumes.
package osuchart

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"maniasr/internal/chart"
)

// ErrNoDifficultySection is returned when a beatmap never declares
// CircleSize (lane count), since the difficulty pipeline cannot run
// without K.
var ErrNoDifficultySection = fmt.Errorf("osuchart: no CircleSize found")

// ParseFile reads and parses a beatmap from disk.
func ParseFile(path string) (chart.Chart, error) {
	f, err := os.Open(path)
	if err != nil {
		return chart.Chart{}, err
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads a beatmap from r. Only the [HitObjects] rows and the
// CircleSize and OverallDifficulty keys are read; those two keys are
// matched on any line outside [HitObjects], without checking that it lies
// in [Difficulty]. Metadata, timing points and storyboard data are not
// needed by the difficulty model.
func Parse(r io.Reader) (chart.Chart, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		columnCount  = -1
		od           = -1.0
		notes        []chart.Note
		inHitObjects bool
	)

	for scanner.Scan() {
		line := scanner.Text()

		if strings.HasPrefix(line, "[HitObjects]") {
			inHitObjects = true
			continue
		}

		if inHitObjects {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" {
				continue
			}
			if strings.HasPrefix(trimmed, "[") {
				inHitObjects = false
				continue
			}
			if columnCount > 0 {
				if n, ok := parseHitObject(trimmed, columnCount); ok {
					notes = append(notes, n)
				}
			}
			continue
		}

		if cs, ok := readCircleSize(line); ok {
			columnCount = cs
		}
		if v, ok := readOverallDifficulty(line); ok {
			od = v
		}
	}
	if err := scanner.Err(); err != nil {
		return chart.Chart{}, err
	}

	if columnCount <= 0 {
		return chart.Chart{}, ErrNoDifficultySection
	}
	if od < 0 {
		od = 5
	}

	return chart.Chart{K: columnCount, OD: od, Notes: notes}, nil
}

func readCircleSize(line string) (int, bool) {
	rest, ok := cutPrefix(line, "CircleSize:")
	if !ok {
		return 0, false
	}
	cs, err := strconv.Atoi(strings.TrimSpace(rest))
	if err != nil {
		return 0, false
	}
	if cs == 0 {
		cs = 10
	}
	return cs, true
}

func readOverallDifficulty(line string) (float64, bool) {
	rest, ok := cutPrefix(line, "OverallDifficulty:")
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(rest), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func cutPrefix(line, prefix string) (string, bool) {
	if !strings.HasPrefix(line, prefix) {
		return "", false
	}
	return line[len(prefix):], true
}

// parseHitObject parses one `[HitObjects]` row: x,y,time,type,hitSound,extras...
// Lane assignment mirrors the reference column formula (centered, rounded
// rather than floored) so boundary columns land where the original chart
// author placed them.
func parseHitObject(line string, columnCount int) (chart.Note, bool) {
	fields := strings.Split(line, ",")
	if len(fields) < 6 {
		return chart.Note{}, false
	}

	x, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return chart.Note{}, false
	}
	offset := 256.0 / float64(columnCount)
	ratio := 512.0 / float64(columnCount)
	lane := int(math.Round((x - offset) / ratio))
	if lane < 0 {
		lane = 0
	}
	if lane >= columnCount {
		lane = columnCount - 1
	}

	h, err := strconv.Atoi(fields[2])
	if err != nil {
		return chart.Note{}, false
	}

	noteType, err := strconv.Atoi(fields[3])
	if err != nil {
		return chart.Note{}, false
	}

	t := -1
	if noteType&128 != 0 {
		extras := strings.Split(fields[5], ":")
		if len(extras) > 0 {
			if endTime, err := strconv.Atoi(extras[0]); err == nil {
				t = endTime
			}
		}
	}

	return chart.Note{K: lane, H: h, T: t}, true
}
