// Package obsname gives structured log and telemetry lines a stable,
// greppable identifier. A Name pairs a short event tag (row_dropped,
// round_computed, ...) with sorted key=value metadata and bare
// annotations, marshaled with a modified logfmt so two lines for the
// same event type sort and diff cleanly:
// row_dropped[reason=NaN_result round=R1 @verbose]
package obsname

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/go-logfmt/logfmt"
)

type metadata map[string]string

// Name is an identifier for one structured log or telemetry line.
type Name struct {
	tag string
	md  metadata
}

// New returns a Name with the given tag and metadata. A nil md is
// treated as empty.
func New(tag string, md map[string]string) Name {
	if md == nil {
		md = map[string]string{}
	}
	return Name{tag: tag, md: md}
}

// String marshals the name, e.g. round_computed[method=A round=R1].
func (n Name) String() string {
	md, err := marshalMetadata(n.md)
	if err != nil {
		md = []byte{}
	}
	return n.tag + string(md)
}

// WithAnnotation returns a copy of n with the given bare annotations
// added (rendered as @name with no value).
func (n Name) WithAnnotation(ann ...string) Name {
	out := copyName(n)
	for _, a := range ann {
		out.md[a] = ""
	}
	return out
}

// WithMetadata returns a copy of n with md upserted into its metadata.
func (n Name) WithMetadata(md map[string]string) Name {
	out := copyName(n)
	for k, v := range md {
		out.md[k] = v
	}
	return out
}

func copyName(n Name) Name {
	md := make(metadata, len(n.md))
	for k, v := range n.md {
		md[k] = v
	}
	return Name{tag: n.tag, md: md}
}

// marshalMetadata renders m as a bracketed, sorted logfmt fragment:
// [k1=v1 k2=v2 @ann1 @ann2]. An entry with an empty value is treated as
// a bare annotation rather than a key=value pair.
func marshalMetadata(m metadata) ([]byte, error) {
	if len(m) == 0 {
		return []byte{}, nil
	}

	keys := make([]string, 0, len(m))
	ann := make([]string, 0, len(m))
	for k, v := range m {
		if v == "" {
			ann = append(ann, "@"+k)
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	sort.Strings(ann)

	var b bytes.Buffer
	b.WriteByte('[')
	e := logfmt.NewEncoder(&b)
	for _, k := range keys {
		if err := e.EncodeKeyval(k, m[k]); err != nil {
			return nil, fmt.Errorf("obsname: encode %s=%s: %w", k, m[k], err)
		}
	}
	if len(keys) > 0 && len(ann) > 0 {
		b.WriteByte(' ')
	}
	b.WriteString(strings.Join(ann, " "))
	b.WriteByte(']')
	return b.Bytes(), nil
}
