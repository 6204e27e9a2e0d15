package respond

import (
	"net/http"
	"strconv"
	"strings"
)

// mediaRange is one element of an Accept header.
type mediaRange struct {
	typ     string
	subtype string
	q       float64
}

// parseAccept splits an Accept header into media ranges. Values are
// lower-cased, a bare type becomes type/*, and a missing, malformed or
// out-of-range q counts as 1.
func parseAccept(header string) []mediaRange {
	var ranges []mediaRange
	for part := range strings.SplitSeq(header, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		params := strings.Split(part, ";")
		mt := strings.ToLower(strings.TrimSpace(params[0]))
		if mt == "" {
			continue
		}
		typ, subtype, found := strings.Cut(mt, "/")
		if !found || subtype == "" {
			subtype = "*"
		}
		r := mediaRange{typ: strings.TrimSpace(typ), subtype: strings.TrimSpace(subtype), q: 1.0}
		for _, p := range params[1:] {
			key, value, ok := strings.Cut(strings.TrimSpace(p), "=")
			if !ok || !strings.EqualFold(strings.TrimSpace(key), "q") {
				continue
			}
			q, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
			if err != nil || q < 0 || q > 1 {
				q = 1.0
			}
			r.q = q
		}
		ranges = append(ranges, r)
	}
	return ranges
}

// specificity ranks how precisely r names the concrete type/subtype, or -1
// when r does not match it.
func (r mediaRange) specificity(typ, subtype string) int {
	switch {
	case r.typ == "*" && r.subtype == "*":
		return 0
	case r.typ != typ:
		return -1
	case r.subtype == "*":
		return 1
	case r.subtype == subtype:
		if strings.Contains(subtype, "+") {
			return 4
		}
		return 3
	case strings.HasPrefix(r.subtype, "*+"):
		if _, suffix, ok := strings.Cut(subtype, "+"); ok && "*+"+suffix == r.subtype {
			return 2
		}
	}
	return -1
}

type preference struct {
	q           float64
	specificity int
}

// preferenceFor returns the best preference the ranges express for any of
// the candidate subtypes of application/*. Each candidate takes the q of its
// most specific matching range; candidates are then compared by q, with
// specificity breaking ties.
func preferenceFor(ranges []mediaRange, candidates ...string) preference {
	best := preference{specificity: -1}
	for _, subtype := range candidates {
		cand := preference{specificity: -1}
		for _, r := range ranges {
			s := r.specificity("application", subtype)
			if s > cand.specificity {
				cand = preference{q: r.q, specificity: s}
			}
		}
		if cand.specificity < 0 {
			continue
		}
		if cand.q > best.q || (cand.q == best.q && cand.specificity > best.specificity) {
			best = cand
		}
	}
	return best
}

// selectFormat reports whether the response should be CBOR. JSON wins unless
// the client prefers CBOR by q-value, or by specificity when q-values tie.
func selectFormat(accept string) bool {
	ranges := parseAccept(accept)
	if len(ranges) == 0 {
		return false
	}
	cborPref := preferenceFor(ranges, "cbor", "problem+cbor")
	if cborPref.specificity < 0 || cborPref.q <= 0 {
		return false
	}
	jsonPref := preferenceFor(ranges, "json", "problem+json")
	if jsonPref.specificity < 0 {
		return true
	}
	return cborPref.q > jsonPref.q ||
		(cborPref.q == jsonPref.q && cborPref.specificity > jsonPref.specificity)
}

// ensureVary adds each value to the Vary header unless already listed.
func ensureVary(h http.Header, values ...string) {
	seen := make(map[string]struct{})
	for _, v := range h.Values("Vary") {
		for part := range strings.SplitSeq(v, ",") {
			seen[strings.ToLower(strings.TrimSpace(part))] = struct{}{}
		}
	}
	for _, v := range values {
		key := strings.ToLower(v)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		h.Add("Vary", v)
	}
}
