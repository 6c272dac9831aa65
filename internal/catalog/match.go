package catalog

// Match is one candidate trigger surfaced by a pattern.
// Start and End are byte offsets of Trigger within the searched text.
type Match struct {
	Pattern Pattern
	Trigger string
	Start   int
	End     int
}

// ConstructionID is the construction the match is attributed to.
func (m Match) ConstructionID() string {
	return m.Pattern.PrimaryConstructionID()
}

// Match searches text with every pattern in catalog order.
//
// Each pattern contributes at most one match: its leftmost-first hit. Patterns
// are independent, so overlapping triggers from different patterns are all
// reported. Longer, more specific triggers are not preferred over shorter ones
// ("cause" may fire alongside "the probable cause of").
//
// TODO: longest-match-first ordering across patterns needs a decision on how
// downstream ledgers should treat the extra rows before it can replace this.
func (c *Catalog) Match(text string) []Match {
	var matches []Match
	for _, p := range c.patterns {
		if p.Regexp == nil {
			continue
		}
		loc := p.Regexp.FindStringIndex(text)
		if loc == nil {
			continue
		}
		matches = append(matches, Match{
			Pattern: p,
			Trigger: text[loc[0]:loc[1]],
			Start:   loc[0],
			End:     loc[1],
		})
	}
	return matches
}
