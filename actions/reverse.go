package actions

import (
	"strconv"
	"strings"

	"github.com/go-mapedit/mapedit"
)

// ReverseOptions configures Reverse's tag-rewrite behavior.
type ReverseOptions struct {
	// ReverseOneway controls whether oneway=yes/-1/1 is flipped. Direction
	// key/value swaps and role swaps always apply.
	ReverseOneway bool
}

// Reverse reverses entityID's node order (if it is a way) and rewrites
// every direction-bearing tag on the entity, on the way's nodes, and on the
// entity's role in every parent relation. Direction degrees are rotated by
// 180 only when entityID is itself a node; the nodes of a reversed way get
// the key and value swaps only.
type Reverse struct {
	EntityID mapedit.ID
	Options  ReverseOptions
}

func (a Reverse) Apply(g *mapedit.Graph) *mapedit.Graph {
	next := g
	e := next.HasEntity(a.EntityID)
	if e == nil {
		return g
	}

	if w, ok := e.(mapedit.Way); ok {
		r, _ := next.Replace(w.WithNodes(reversedIDs(w.Nodes)).WithTags(reverseTags(w.Tags(), a.Options, false)))
		next = r

		for _, nodeID := range uniqueNodeIDs(w.Nodes) {
			n, ok := entity[mapedit.Node](next, nodeID)
			if !ok {
				continue
			}
			rewritten := reverseTags(n.Tags(), a.Options, false)
			if !tagsEqual(rewritten, n.Tags()) {
				r, _ := next.Replace(n.WithTags(rewritten))
				next = r
			}
		}
	} else {
		_, isNode := e.(mapedit.Node)
		r, _ := next.Replace(e.WithTags(reverseTags(e.Tags(), a.Options, isNode)))
		next = r
	}

	for _, relID := range next.ParentRelations(a.EntityID) {
		rel, ok := entity[mapedit.Relation](next, relID)
		if !ok {
			continue
		}
		members := append([]mapedit.Member{}, rel.Members...)
		changed := false
		for i, m := range members {
			if m.ID == a.EntityID {
				if swapped := reverseRole(m.Role); swapped != m.Role {
					members[i].Role = swapped
					changed = true
				}
			}
		}
		if changed {
			r, _ := next.Replace(rel.WithMembers(members))
			next = r
		}
	}

	return next
}

func reversedIDs(ids []mapedit.ID) []mapedit.ID {
	out := make([]mapedit.ID, len(ids))
	for i, id := range ids {
		out[len(ids)-1-i] = id
	}
	return out
}

func uniqueNodeIDs(ids []mapedit.ID) []mapedit.ID {
	seen := make(map[mapedit.ID]struct{}, len(ids))
	var out []mapedit.ID
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func tagsEqual(a, b mapedit.Tags) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}

var keyAffixSwaps = []struct{ a, b string }{
	{"left", "right"},
	{"forward", "backward"},
}

var directionalValueSwaps = map[string]string{
	"left": "right", "right": "left",
	"up": "down", "down": "up",
	"forward": "backward", "backward": "forward",
	"forwards": "backwards", "backwards": "forwards",
	"N": "S", "S": "N",
	"NE": "SW", "SW": "NE",
	"E": "W", "W": "E",
	"SE": "NW", "NW": "SE",
	"NNE": "SSW", "SSW": "NNE",
	"ENE": "WSW", "WSW": "ENE",
	"ESE": "WNW", "WNW": "ESE",
	"SSE": "NNW", "NNW": "SSE",
}

// reverseTags returns a copy of tags with direction-bearing keys and values
// rewritten for the entity's reversed orientation; if perNode (the entity
// being reversed is itself a node), a direction value also gets the
// absolute-direction rewrite. turn:lanes* keys are exempt from both the key and value
// rewrite passes: rewriting turn:lanes:backward to turn:lanes:forward would
// silently swap which physical lane a turn restriction applies to.
func reverseTags(tags mapedit.Tags, opts ReverseOptions, perNode bool) mapedit.Tags {
	if tags == nil {
		return nil
	}
	out := make(mapedit.Tags, len(tags))
	for key, value := range tags {
		if strings.HasPrefix(key, "turn:lanes") {
			out[key] = value
			continue
		}

		newKey := reverseKey(key)
		newValue := reverseValue(key, value, opts)
		if perNode && key == "direction" {
			newValue = reverseAbsoluteValue(key, value)
		}
		out[newKey] = newValue
	}
	return out
}

// reverseKey swaps a :left/:right or :forward/:backward suffix or infix
// segment within key, leaving keys without such a segment untouched.
func reverseKey(key string) string {
	segments := strings.Split(key, ":")
	for i, seg := range segments {
		for _, swap := range keyAffixSwaps {
			if seg == swap.a {
				segments[i] = swap.b
				return strings.Join(segments, ":")
			}
			if seg == swap.b {
				segments[i] = swap.a
				return strings.Join(segments, ":")
			}
		}
	}
	return key
}

func reverseValue(key, value string, opts ReverseOptions) string {
	switch key {
	case "oneway":
		if !opts.ReverseOneway {
			return value
		}
		switch value {
		case "yes", "1":
			return "-1"
		case "-1":
			return "yes"
		default:
			return value
		}
	case "incline":
		return negateIncline(value)
	case "direction":
		if swapped, ok := directionalValueSwaps[value]; ok {
			return swapped
		}
		return value
	default:
		if swapped, ok := directionalValueSwaps[value]; ok {
			return swapped
		}
		return value
	}
}

// reverseAbsoluteValue applies the absolute-direction rewrite to a
// direction tag (degree rotation by 180, or a compass swap), used only for
// a node that is itself the entity being reversed.
func reverseAbsoluteValue(key, value string) string {
	if key != "direction" {
		return value
	}
	if degrees, err := strconv.ParseFloat(value, 64); err == nil {
		rotated := degrees + 180
		for rotated >= 360 {
			rotated -= 360
		}
		return strconv.FormatFloat(rotated, 'g', -1, 64)
	}
	if swapped, ok := directionalValueSwaps[value]; ok {
		return swapped
	}
	return value
}

func negateIncline(value string) string {
	if value == "" {
		return value
	}
	if strings.HasPrefix(value, "-") {
		return strings.TrimPrefix(value, "-")
	}
	if n, err := strconv.ParseFloat(value, 64); err == nil {
		return strconv.FormatFloat(-n, 'g', -1, 64)
	}
	return "-" + value
}

func reverseRole(role string) string {
	switch role {
	case "forward":
		return "backward"
	case "backward":
		return "forward"
	case "forwards":
		return "backwards"
	case "backwards":
		return "forwards"
	default:
		return role
	}
}
