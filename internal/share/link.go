package share

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/tayloree/luckydex/internal/roster"
)

// Query parameter names used in share links.
const (
	ParamPayload  = "lucky"
	ParamChecksum = "sum"
	ParamCount    = "count"
)

// Status is the outcome of verifying a share link.
type Status int

const (
	StatusValid Status = iota
	StatusInvalid
	StatusCorrupted
)

func (s Status) String() string {
	switch s {
	case StatusValid:
		return "valid"
	case StatusInvalid:
		return "invalid"
	default:
		return "corrupted"
	}
}

// Link is the set of query values that make up a share link. Checksum and
// count are optional.
type Link struct {
	Payload  string
	Checksum string
	Count    int
	HasCount bool
}

// NewLink builds a complete link for the lucky creatures of 1..maxDex.
func NewLink(creatures []roster.Creature, maxDex int) Link {
	set := roster.LuckyDexNumbers(creatures, maxDex)
	payload := EncodeSet(set, maxDex)
	return Link{
		Payload:  payload,
		Checksum: Checksum(payload),
		Count:    set.Len(),
		HasCount: true,
	}
}

// Query renders the link parameters.
func (l Link) Query() url.Values {
	v := url.Values{}
	v.Set(ParamPayload, l.Payload)
	if l.Checksum != "" {
		v.Set(ParamChecksum, l.Checksum)
	}
	if l.HasCount {
		v.Set(ParamCount, strconv.Itoa(l.Count))
	}
	return v
}

// URL appends the link parameters to base, keeping any existing query.
func (l Link) URL(base string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parsing share base url: %w", err)
	}
	q := u.Query()
	for k, vs := range l.Query() {
		q[k] = vs
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// ParseLink accepts a full URL, a query string, or a bare payload.
func ParseLink(raw string) (Link, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Link{}, fmt.Errorf("%w: empty", ErrInvalidPayload)
	}
	if !strings.Contains(raw, ParamPayload+"=") {
		return Link{Payload: raw}, nil
	}

	query := raw
	if i := strings.Index(raw, "?"); i >= 0 {
		query = raw[i+1:]
	}
	if i := strings.Index(query, "#"); i >= 0 {
		query = query[:i]
	}
	values, err := url.ParseQuery(query)
	if err != nil {
		return Link{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	l := Link{
		Payload:  values.Get(ParamPayload),
		Checksum: strings.ToLower(values.Get(ParamChecksum)),
	}
	if l.Payload == "" {
		return Link{}, fmt.Errorf("%w: missing %q parameter", ErrInvalidPayload, ParamPayload)
	}
	if c := values.Get(ParamCount); c != "" {
		n, err := strconv.Atoi(c)
		if err != nil || n < 0 {
			return Link{}, fmt.Errorf("%w: bad %q parameter", ErrCountMismatch, ParamCount)
		}
		l.Count, l.HasCount = n, true
	}
	return l, nil
}

// Verify checks a link and decodes its lucky set. The checksum is compared
// first, then the payload is decoded, then the declared count is compared.
// Missing checksum or count parameters skip those checks.
func Verify(l Link, maxDex int) (roster.DexSet, Status, error) {
	if l.Checksum != "" && Checksum(l.Payload) != l.Checksum {
		return nil, StatusCorrupted, ErrChecksumMismatch
	}
	set, err := Decode(l.Payload, maxDex)
	if err != nil {
		return nil, StatusInvalid, err
	}
	if l.HasCount && set.Len() != l.Count {
		return nil, StatusCorrupted, fmt.Errorf("%w: declared %d, decoded %d", ErrCountMismatch, l.Count, set.Len())
	}
	return set, StatusValid, nil
}

// StatusOf classifies an error returned by this package.
func StatusOf(err error) Status {
	switch {
	case err == nil:
		return StatusValid
	case errors.Is(err, ErrChecksumMismatch), errors.Is(err, ErrCountMismatch):
		return StatusCorrupted
	default:
		return StatusInvalid
	}
}
