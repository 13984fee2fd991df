package dictation

// Parser turns raw tokens into words, choosing the path by token shape:
// `written\property\spoken` tokens go to the Resolver, everything else to
// the Decoder.
type Parser struct {
	Decoder  Decoder
	Resolver Resolver
}

// Parse converts one raw token.
func (p Parser) Parse(token string) (Word, error) {
	if IsPropertyToken(token) {
		word, _ := p.Resolver.Resolve(token)
		return word, nil
	}
	return p.Decoder.Decode(token)
}

// ParseAll converts tokens in order, stopping at the first failure.
func (p Parser) ParseAll(tokens []string) ([]Word, error) {
	words := make([]Word, 0, len(tokens))
	for _, token := range tokens {
		word, err := p.Parse(token)
		if err != nil {
			return nil, err
		}
		words = append(words, word)
	}
	return words, nil
}
