package mapedit

// AreaKeys maps an OSM key to the set of values that, for that key,
// indicate an area (polygon) geometry rather than a line. A value mapped to
// true means "every value except listed exceptions is an area"; individual
// exceptions are recorded with false.
type AreaKeys map[string]map[string]bool

// IsArea reports whether a closed way tagged with tags should be
// interpreted as an area rather than a closed line, per ak.
func (ak AreaKeys) IsArea(tags Tags) bool {
	for key, exceptions := range ak {
		value, ok := tags.Get(key)
		if !ok {
			continue
		}
		if isArea, exempted := exceptions[value]; exempted {
			if isArea {
				return true
			}
			continue
		}
		return true
	}
	return false
}

// DeprecatedTag is a single migration rule: a tagging pattern considered
// deprecated, optionally paired with its replacement. A nil Replace means
// the tag should simply be dropped.
type DeprecatedTag struct {
	Old     Tags
	Replace Tags
}

// DeprecatedTags is an ordered list of migration rules, consulted in order
// so earlier, more specific rules take priority over later, more general
// ones (e.g. a 2-key combo rule before a 1:1 rule on one of its keys).
type DeprecatedTags []DeprecatedTag

// IgnoredTags is the set of keys considered uninteresting for "has
// descriptive tags" checks (sources, notes, metadata keys); DefaultIgnoredTags
// does not list name.
type IgnoredTags map[string]bool

// Config bundles the configuration tables loaded once at startup and
// threaded through validators and topological actions that need them.
type Config struct {
	AreaKeys       AreaKeys
	DeprecatedTags DeprecatedTags
	IgnoredTags    IgnoredTags
}

// DefaultIgnoredTags lists keys every validator should treat as
// non-descriptive metadata, mirroring the default preset used by the
// missingTag validator's "descriptive tags" check.
func DefaultIgnoredTags() IgnoredTags {
	return IgnoredTags{
		"source":        true,
		"source_ref":    true,
		"note":          true,
		"fixme":         true,
		"created_by":    true,
		"import_uuid":   true,
		"attribution":   true,
		"tiger:county":  true,
		"tiger:cfcc":    true,
		"tiger:reviewed": true,
	}
}
