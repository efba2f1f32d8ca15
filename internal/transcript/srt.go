package transcript

import (
	"bufio"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/nguyentantai21042004/caption-digest/internal/models"
)

var (
	// <c>, </c>, <i>, <font ...> and inline karaoke timestamps
	tagPattern  = regexp.MustCompile(`<[^>]*>`)
	timePattern = regexp.MustCompile(`(\d+):(\d{2}):(\d{2})[,.](\d{3})`)
)

type cue struct {
	start, end time.Duration
	lines      []string
}

// ParseSRT converts SRT subtitles into transcript segments.
//
//	1                               sequence number
//	00:00:00,000 --> 00:00:01,830   start --> end
//	I'm happy to                    line
//	have you here today.            line
//
// Auto-generated captions repeat the previous line at the top of each cue;
// those repeats and consecutive identical cues are dropped.
func ParseSRT(data string) []models.TranscriptSegment {
	var cues []cue
	var current *cue

	scanner := bufio.NewScanner(strings.NewReader(strings.TrimPrefix(data, "\ufeff")))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" {
			current = nil
			continue
		}

		if strings.Contains(line, "-->") {
			parts := strings.SplitN(line, "-->", 2)
			start, okStart := parseTimestamp(parts[0])
			end, okEnd := parseTimestamp(parts[1])
			if okStart && okEnd {
				cues = append(cues, cue{start: start, end: end})
				current = &cues[len(cues)-1]
			}
			continue
		}

		// Sequence numbers and stray lines outside a cue
		if current == nil {
			continue
		}

		if text := cleanLine(line); text != "" {
			current.lines = append(current.lines, text)
		}
	}

	return toSegments(cues)
}

func toSegments(cues []cue) []models.TranscriptSegment {
	segments := make([]models.TranscriptSegment, 0, len(cues))
	lastLine := ""
	lastText := ""

	for _, c := range cues {
		lines := c.lines
		for len(lines) > 0 && lines[0] == lastLine {
			lines = lines[1:]
		}
		if len(lines) == 0 {
			continue
		}

		text := strings.Join(lines, " ")
		lastLine = lines[len(lines)-1]
		if text == lastText {
			continue
		}
		lastText = text

		segments = append(segments, models.TranscriptSegment{
			Text:     text,
			Start:    c.start,
			Duration: max(c.end-c.start, 0),
		})
	}

	return segments
}

func parseTimestamp(s string) (time.Duration, bool) {
	m := timePattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	h, _ := strconv.Atoi(m[1])
	mins, _ := strconv.Atoi(m[2])
	sec, _ := strconv.Atoi(m[3])
	ms, _ := strconv.Atoi(m[4])

	return time.Duration(h)*time.Hour +
		time.Duration(mins)*time.Minute +
		time.Duration(sec)*time.Second +
		time.Duration(ms)*time.Millisecond, true
}

func cleanLine(line string) string {
	line = tagPattern.ReplaceAllString(line, "")
	line = strings.ReplaceAll(line, "&nbsp;", " ")
	line = strings.ReplaceAll(line, "&amp;", "&")
	return strings.Join(strings.Fields(line), " ")
}
