// Package extract pulls structured fields out of loosely-structured
// meetup descriptions: labeled Host/Co-host/Speaker lines and the
// display portion of the description text.
package extract

import (
	"regexp"
	"strings"

	"meetupsync/internal/text"
)

type bucket int

const (
	bucketHost bucket = iota
	bucketCohost
	bucketSpeaker
)

// labelRules are evaluated per line in order; the first match wins, so a
// line feeds at most one bucket. Labels may be wrapped in emphasis
// asterisks and match case-insensitively.
var labelRules = []struct {
	re *regexp.Regexp
	to bucket
}{
	{regexp.MustCompile(`(?i)^\**Host:\**\s*(.+)`), bucketHost},
	{regexp.MustCompile(`(?i)^\**Co-host:\**\s*(.+)`), bucketCohost},
	{regexp.MustCompile(`(?i)^\**(?:Guest Presenter|Speaker):\**\s*(.+)`), bucketSpeaker},
}

// HostsAndSpeakers scans a raw event description for labeled lines and
// composes the host and speaker display strings.
//
// Names are joined with ", " in the order encountered. When both hosts
// and co-hosts exist, the host string is "<hosts> and <cohosts>"; when
// only co-hosts exist they stand in as the host string. Captured names
// that clean down to nothing are discarded.
func HostsAndSpeakers(description string) (host, speaker string) {
	var hosts, cohosts, speakers []string

	// Literal backslashes are stray escape artifacts from the calendar
	// export; remove them before any line matching.
	cleaned := strings.ReplaceAll(description, `\`, "")

	for _, line := range strings.Split(cleaned, "\n") {
		line = strings.TrimSpace(line)

		for _, rule := range labelRules {
			m := rule.re.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			if name := text.CleanName(m[1]); name != "" {
				switch rule.to {
				case bucketHost:
					hosts = append(hosts, name)
				case bucketCohost:
					cohosts = append(cohosts, name)
				case bucketSpeaker:
					speakers = append(speakers, name)
				}
			}
			break
		}
	}

	speaker = strings.Join(speakers, ", ")
	switch {
	case len(hosts) > 0 && len(cohosts) > 0:
		host = strings.Join(hosts, ", ") + " and " + strings.Join(cohosts, ", ")
	case len(cohosts) > 0:
		host = strings.Join(cohosts, ", ")
	default:
		host = strings.Join(hosts, ", ")
	}
	return host, speaker
}
