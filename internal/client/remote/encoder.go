package remote

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/filekeeper/internal/common"
)

// Encode renders the command for req from d.Template. The template is split
// on spaces and every {name} is replaced with req.Params()[name]. Values are
// substituted after splitting, so a value with spaces stays one argument.
// A missing or empty value is rejected.
func Encode(d Descriptor, req Request) ([]any, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: nil request", common.ErrInvalidInput)
	}
	if req.Action() != d.Type {
		return nil, fmt.Errorf("%w: %s request for %s descriptor", common.ErrInvalidInput, req.Action(), d.Type)
	}

	params := req.Params()
	tokens := strings.Fields(d.Template)
	args := make([]any, 0, len(tokens))

	for _, tok := range tokens {
		s, err := expand(tok, params)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", d.Type, err)
		}
		args = append(args, s)
	}

	return args, nil
}

func expand(tok string, params map[string]string) (string, error) {
	var b strings.Builder

	for {
		open := strings.IndexByte(tok, '{')
		if open < 0 {
			b.WriteString(tok)
			return b.String(), nil
		}
		end := strings.IndexByte(tok[open:], '}')
		if end < 0 {
			return "", fmt.Errorf("%w: unterminated placeholder in %q", common.ErrInvalidInput, tok)
		}
		end += open

		name := tok[open+1 : end]
		v, ok := params[name]
		switch {
		case !ok:
			return "", fmt.Errorf("%w: missing parameter %q", common.ErrInvalidInput, name)
		case v == "":
			return "", fmt.Errorf("%w: empty parameter %q", common.ErrInvalidInput, name)
		}

		b.WriteString(tok[:open])
		b.WriteString(v)
		tok = tok[end+1:]
	}
}
