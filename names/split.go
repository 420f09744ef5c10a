package names

import (
	"strings"
)

// parts is a name split on structure alone, before the table-driven
// middle-name pass. Each field may hold several space-separated tokens.
type parts struct {
	title  string
	first  string
	middle string
	last   string
	suffix string
}

// Nobiliary particles, joined to the token that follows them.
var particles = map[string]bool{
	"van": true, "von": true, "de": true, "del": true, "della": true,
	"dei": true, "di": true, "da": true, "dal": true, "dos": true,
	"das": true, "do": true, "le": true, "la": true, "du": true,
	"des": true, "den": true, "der": true, "het": true, "ter": true,
	"ten": true, "op": true, "ibn": true, "bin": true, "st.": true,
}

func isParticle(token string) bool {
	return particles[strings.ToLower(token)]
}

// split handles the three layouts a name string comes in:
//
//	Last, First Middle[, Suffix...]
//	First Middle Last[, Suffix]
//	First Middle Last [Suffix...]
func (p *Parser) split(s string, parseTitles bool) parts {
	var commaParts []string
	for _, c := range strings.Split(s, ",") {
		if c = strings.TrimSpace(c); c != "" {
			commaParts = append(commaParts, c)
		}
	}

	switch {
	case len(commaParts) == 0:
		return parts{}
	case len(commaParts) == 1:
		return p.splitDirect(strings.Fields(commaParts[0]), parseTitles)
	case len(commaParts) == 2 && p.allSuffixes(strings.Fields(commaParts[1])):
		n := p.splitDirect(strings.Fields(commaParts[0]), parseTitles)
		n.suffix = joinNonEmpty(n.suffix, commaParts[1])
		return n
	}

	// Last, First Middle[, Suffix...]
	n := parts{last: commaParts[0]}
	rest := strings.Fields(commaParts[1])
	if parseTitles {
		for len(rest) > 1 && p.tables.IsPrefix(rest[0]) {
			n.title = joinNonEmpty(n.title, rest[0])
			rest = rest[1:]
		}
	}
	var middle, suffix []string
	for i, tok := range rest {
		switch {
		case i == 0:
			n.first = tok
		case p.tables.IsSuffix(tok):
			suffix = append(suffix, tok)
		default:
			middle = append(middle, tok)
		}
	}
	n.middle = strings.Join(middle, " ")
	suffix = append(suffix, commaParts[2:]...)
	n.suffix = strings.Join(suffix, ", ")
	return n
}

// splitDirect reads "First Middle Last Suffix" order.
func (p *Parser) splitDirect(tokens []string, parseTitles bool) parts {
	var n parts

	if parseTitles {
		for len(tokens) > 1 && p.tables.IsPrefix(tokens[0]) {
			n.title = joinNonEmpty(n.title, tokens[0])
			tokens = tokens[1:]
		}
	}

	pieces := joinParticles(tokens)
	switch {
	case len(pieces) == 0:
		return n
	case isLowerParticle(firstToken(pieces[0])):
		// no given name ahead of the particle
		n.last = strings.Join(pieces, " ")
		return n
	case len(pieces) == 1:
		n.first = pieces[0]
		return n
	}

	n.first = pieces[0]
	var middle []string
	for i := 1; i < len(pieces); i++ {
		if i < len(pieces)-1 && p.allSuffixes(pieces[i+1:]) {
			n.last = pieces[i]
			n.suffix = strings.Join(pieces[i+1:], " ")
			break
		}
		if i == len(pieces)-1 {
			n.last = pieces[i]
			break
		}
		middle = append(middle, pieces[i])
	}
	n.middle = strings.Join(middle, " ")
	return n
}

// joinParticles glues particle runs to the following token so "de la Paz"
// travels as one piece. A capitalized particle opening the name ("Van
// Morrison") is left alone since it is probably a given name.
func joinParticles(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for i := 0; i < len(tokens); i++ {
		t := tokens[i]
		if !isParticle(t) || i == len(tokens)-1 || (i == 0 && !isLowerParticle(t)) {
			out = append(out, t)
			continue
		}
		j := i
		for j < len(tokens)-1 && isParticle(tokens[j]) {
			j++
		}
		out = append(out, strings.Join(tokens[i:j+1], " "))
		i = j
	}
	return out
}

func isLowerParticle(token string) bool {
	return isParticle(token) && token == strings.ToLower(token)
}

func firstToken(piece string) string {
	if i := strings.IndexByte(piece, ' '); i >= 0 {
		return piece[:i]
	}
	return piece
}

func (p *Parser) allSuffixes(tokens []string) bool {
	if len(tokens) == 0 {
		return false
	}
	for _, t := range tokens {
		if !p.tables.IsSuffix(t) {
			return false
		}
	}
	return true
}
