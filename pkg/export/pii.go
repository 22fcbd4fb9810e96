package export

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/amr-platform/annotation-core/pkg/domain"
)

// PIIFilter applies one of the three export PII strategies to every
// personally-identifying field a record carries.
type PIIFilter struct {
	strategy domain.PIIStrategy
}

// NewPIIFilter constructs a PIIFilter for the given strategy.
func NewPIIFilter(strategy domain.PIIStrategy) *PIIFilter {
	return &PIIFilter{strategy: strategy}
}

// ApplyUser transforms a user id per the filter's strategy.
func (f *PIIFilter) ApplyUser(id *int64) *int64 {
	if id == nil {
		return nil
	}
	switch f.strategy {
	case domain.PIIInclude:
		return id
	case domain.PIIStrip:
		return nil
	default:
		anon := anonymizeInt("user", *id, 10_000_000)
		return &anon
	}
}

// ApplySource transforms a sentence source tag per the filter's strategy.
func (f *PIIFilter) ApplySource(source *string) *string {
	if source == nil {
		return nil
	}
	switch f.strategy {
	case domain.PIIInclude:
		return source
	case domain.PIIStrip:
		return nil
	default:
		anon := fmt.Sprintf("src-%d", stableHash(*source)%1_000_000)
		return &anon
	}
}

// ApplyIP transforms an IP address string per the filter's strategy.
func (f *PIIFilter) ApplyIP(ip string) string {
	switch f.strategy {
	case domain.PIIInclude:
		return ip
	case domain.PIIStrip:
		return ""
	default:
		return "0.0.0.0"
	}
}

func (f *PIIFilter) applyEmail(email string) *string {
	switch f.strategy {
	case domain.PIIInclude:
		return &email
	case domain.PIIStrip:
		return nil
	default:
		anon := fmt.Sprintf("user-%d@example.local", stableHash(email)%1_000_000)
		return &anon
	}
}

// CleanseDetails walks a FailedSubmission's details JSON object and
// rewrites any key that looks like an email, IP address, or source id
// per the filter's strategy; every other key passes through unchanged.
func (f *PIIFilter) CleanseDetails(details string) string {
	if details == "" || f.strategy == domain.PIIInclude {
		return details
	}
	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(details), &parsed); err != nil {
		return details
	}
	for key, value := range parsed {
		lowered := strings.ToLower(key)
		str, isString := value.(string)
		if !isString {
			continue
		}
		switch {
		case strings.Contains(lowered, "email"):
			if anon := f.applyEmail(str); anon != nil {
				parsed[key] = *anon
			} else {
				parsed[key] = nil
			}
		case strings.Contains(lowered, "ip"):
			parsed[key] = f.ApplyIP(str)
		case strings.Contains(lowered, "source_id") || lowered == "source":
			parsed[key] = f.ApplySource(&str)
		}
	}
	out, err := json.Marshal(parsed)
	if err != nil {
		return details
	}
	return string(out)
}

func anonymizeInt(prefix string, id int64, mod int64) int64 {
	return int64(stableHash(fmt.Sprintf("%s-%d", prefix, id)) % uint64(mod))
}

func stableHash(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}
