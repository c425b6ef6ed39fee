package chunk

import (
	"time"
	"unicode/utf8"
)

// TimeRange is a half-open [Start, End) slice of a media timeline.
type TimeRange struct {
	Start time.Duration
	End   time.Duration
}

// ProportionalRanges divides total across the pieces proportionally to each
// piece's rune length. Ranges are contiguous: the first starts at zero, each
// start equals the previous end, and the final end equals total exactly (the
// cumulative rounding remainder is absorbed by the last range).
//
// A zero total yields zero-width ranges; pieces with no measurable weight
// (all empty) are weighted equally instead.
func ProportionalRanges(pieces []string, total time.Duration) []TimeRange {
	if len(pieces) == 0 {
		return nil
	}

	weights := make([]int64, len(pieces))
	var sum int64
	for i, piece := range pieces {
		weights[i] = int64(utf8.RuneCountInString(piece))
		sum += weights[i]
	}
	if sum == 0 {
		for i := range weights {
			weights[i] = 1
		}
		sum = int64(len(weights))
	}

	ranges := make([]TimeRange, len(pieces))
	var cum int64
	var prevEnd time.Duration
	for i := range pieces {
		cum += weights[i]
		end := time.Duration(int64(total) * cum / sum)
		if i == len(pieces)-1 {
			end = total
		}
		ranges[i] = TimeRange{Start: prevEnd, End: end}
		prevEnd = end
	}

	return ranges
}

// SegmentRanges allocates ranges for pre-segmented sources, e.g. multiple
// audio tracks back-to-back. Each segment's pieces receive proportional
// ranges within that segment's own duration window, offset by the cumulative
// duration of all preceding segments, so ranges stay monotonic across
// segment boundaries.
func SegmentRanges(segments [][]string, durations []time.Duration) [][]TimeRange {
	ranges := make([][]TimeRange, len(segments))
	var offset time.Duration
	for i, pieces := range segments {
		local := ProportionalRanges(pieces, durations[i])
		shifted := make([]TimeRange, len(local))
		for j, r := range local {
			shifted[j] = TimeRange{Start: offset + r.Start, End: offset + r.End}
		}
		ranges[i] = shifted
		offset += durations[i]
	}
	return ranges
}
