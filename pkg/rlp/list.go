package rlp

import "github.com/alanyoungcy/ethcore/pkg/ecode"

// ListElements splits a single top-level RLP list item into the raw encoded
// bytes of each element, without interpreting their contents. Callers that
// must choose a decode target based on element count (transaction envelope
// variants, which differ only in trailing field count) split first, count,
// then Decode the original bytes into the chosen concrete type.
func ListElements(data []byte) ([][]byte, error) {
	it, err := splitItem(data)
	if err != nil {
		return nil, err
	}
	if it.Kind != KindList {
		return nil, ecode.New(ecode.Protocol, "rlp: ListElements", "expected a list item")
	}
	if len(it.Rest) != 0 {
		return nil, ecode.New(ecode.Protocol, "rlp: ListElements", "trailing bytes after top-level item")
	}
	return listElementsRaw(it.Content)
}

func listElementsRaw(payload []byte) ([][]byte, error) {
	var out [][]byte
	rest := payload
	for len(rest) > 0 {
		it, err := splitItem(rest)
		if err != nil {
			return nil, err
		}
		consumed := len(rest) - len(it.Rest)
		out = append(out, rest[:consumed])
		rest = it.Rest
	}
	return out, nil
}
