package document

import "strings"

// separators are tried in order: paragraph breaks first, then lines, then
// words, finally a hard character cut.
var separators = []string{"\n\n", "\n", " ", ""}

// SplitText recursively splits text into chunks of at most chunkSize
// characters with chunkOverlap characters carried between adjacent chunks.
func (l *Loader) SplitText(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	return l.split(text, separators)
}

func (l *Loader) split(text string, seps []string) []string {
	if len(text) <= l.chunkSize {
		return []string{text}
	}

	// Pick the coarsest separator that actually occurs in the text.
	sep := ""
	var remaining []string
	for i, s := range seps {
		if s == "" {
			break
		}
		if strings.Contains(text, s) {
			sep = s
			remaining = seps[i+1:]
			break
		}
	}

	if sep == "" {
		return l.hardSplit(text)
	}

	parts := strings.Split(text, sep)
	var pieces []string
	for _, part := range parts {
		if part == "" {
			continue
		}
		if len(part) > l.chunkSize {
			pieces = append(pieces, l.split(part, remaining)...)
		} else {
			pieces = append(pieces, part)
		}
	}
	return l.merge(pieces, sep)
}

// merge greedily packs pieces into chunks up to chunkSize, keeping a tail of
// previous pieces as overlap for the next chunk.
func (l *Loader) merge(pieces []string, sep string) []string {
	var chunks []string
	var current []string
	currentLen := 0

	flush := func() {
		if len(current) == 0 {
			return
		}
		chunks = append(chunks, strings.Join(current, sep))
		// keep the tail as overlap
		for currentLen > l.chunkOverlap && len(current) > 1 {
			currentLen -= len(current[0]) + len(sep)
			current = current[1:]
		}
	}

	for _, piece := range pieces {
		addition := len(piece)
		if currentLen > 0 {
			addition += len(sep)
		}
		if currentLen+addition > l.chunkSize && currentLen > 0 {
			flush()
		}
		current = append(current, piece)
		if currentLen > 0 {
			currentLen += len(sep)
		}
		currentLen += len(piece)
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, sep))
	}
	return chunks
}

// hardSplit cuts text at fixed offsets when no separator is available.
func (l *Loader) hardSplit(text string) []string {
	step := l.chunkSize - l.chunkOverlap
	if step <= 0 {
		step = l.chunkSize
	}
	var chunks []string
	for start := 0; start < len(text); start += step {
		end := start + l.chunkSize
		if end >= len(text) {
			chunks = append(chunks, text[start:])
			break
		}
		chunks = append(chunks, text[start:end])
	}
	return chunks
}
