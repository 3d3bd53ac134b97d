package human

import (
	"strconv"

	"github.com/alanyoungcy/ethcore/pkg/abi"
	"github.com/alanyoungcy/ethcore/pkg/ecode"
)

// ItemKind distinguishes the declaration forms a human-readable source can
// contain.
type ItemKind int

const (
	ItemFunction ItemKind = iota
	ItemEvent
	ItemError
	ItemConstructor
	ItemFallback
	ItemReceive
)

// Item is one parsed top-level declaration. Struct declarations are
// consumed internally to build the schema and never appear in the result.
type Item struct {
	Kind       ItemKind
	Name       string
	Inputs     []abi.Parameter
	Outputs    []abi.Parameter
	Anonymous  bool
	Mutability string // "view", "pure", "payable", "nonpayable", or "" if unspecified
}

type parser struct {
	toks    []token
	pos     int
	structs map[string]abi.Parameter // name -> tuple template (Components set, Type=KindTuple)
}

// Parse lexes and parses a human-readable ABI source: one or more
// function/event/error/constructor/struct declarations, newline- or
// semicolon-separated. Struct declarations must precede any declaration
// that references them.
func Parse(source string) ([]Item, error) {
	toks, err := lex(source)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks, structs: map[string]abi.Parameter{}}
	var items []Item
	for !p.atEOF() {
		p.skipStray(tokSemicolon)
		if p.atEOF() {
			break
		}
		item, isStruct, err := p.parseDeclaration()
		if err != nil {
			return nil, err
		}
		if !isStruct {
			items = append(items, item)
		}
	}
	return items, nil
}

func (p *parser) atEOF() bool { return p.peek().kind == tokEOF }

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) skipStray(k tokenKind) {
	for p.peek().kind == k {
		p.pos++
	}
}

func (p *parser) expect(k tokenKind, what string) (token, error) {
	t := p.next()
	if t.kind != k {
		return token{}, ecode.New(ecode.Schema, "human: parse", "unexpected token, expected "+what+" got \""+t.text+"\"")
	}
	return t, nil
}

func (p *parser) parseDeclaration() (Item, bool, error) {
	kw := p.next()
	if kw.kind != tokIdent {
		return Item{}, false, ecode.New(ecode.Schema, "human: parse", "expected declaration keyword, got \""+kw.text+"\"")
	}
	switch kw.text {
	case "function":
		item, err := p.parseFunction()
		return item, false, err
	case "event":
		item, err := p.parseEvent()
		return item, false, err
	case "error":
		item, err := p.parseErrorDecl()
		return item, false, err
	case "constructor":
		item, err := p.parseConstructor()
		return item, false, err
	case "struct":
		err := p.parseStruct()
		return Item{}, true, err
	case "fallback":
		if _, err := p.parseParamList(false); err != nil {
			return Item{}, false, err
		}
		p.skipStray(tokSemicolon)
		return Item{Kind: ItemFallback}, false, nil
	case "receive":
		if _, err := p.parseParamList(false); err != nil {
			return Item{}, false, err
		}
		p.skipStray(tokSemicolon)
		return Item{Kind: ItemReceive}, false, nil
	default:
		return Item{}, false, ecode.New(ecode.Schema, "human: parse", "unexpected top-level keyword \""+kw.text+"\"")
	}
}

func (p *parser) parseFunction() (Item, error) {
	name, err := p.expect(tokIdent, "function name")
	if err != nil {
		return Item{}, err
	}
	inputs, err := p.parseParamList(true)
	if err != nil {
		return Item{}, err
	}
	item := Item{Kind: ItemFunction, Name: name.text, Inputs: inputs}
	for {
		t := p.peek()
		if t.kind != tokIdent {
			break
		}
		switch t.text {
		case "view", "pure", "payable", "nonpayable":
			item.Mutability = t.text
			p.next()
		case "external", "public", "internal", "private", "virtual", "override":
			p.next()
		case "returns":
			p.next()
			outputs, err := p.parseParamList(false)
			if err != nil {
				return Item{}, err
			}
			if len(outputs) == 0 {
				return Item{}, ecode.New(ecode.Schema, "human: parse", "empty returns clause")
			}
			item.Outputs = outputs
		default:
			goto done
		}
	}
done:
	p.skipStray(tokSemicolon)
	return item, nil
}

func (p *parser) parseEvent() (Item, error) {
	name, err := p.expect(tokIdent, "event name")
	if err != nil {
		return Item{}, err
	}
	inputs, err := p.parseParamList(true)
	if err != nil {
		return Item{}, err
	}
	item := Item{Kind: ItemEvent, Name: name.text, Inputs: inputs}
	if p.peek().kind == tokIdent && p.peek().text == "anonymous" {
		p.next()
		item.Anonymous = true
	}
	p.skipStray(tokSemicolon)
	return item, nil
}

func (p *parser) parseErrorDecl() (Item, error) {
	name, err := p.expect(tokIdent, "error name")
	if err != nil {
		return Item{}, err
	}
	inputs, err := p.parseParamList(false)
	if err != nil {
		return Item{}, err
	}
	p.skipStray(tokSemicolon)
	return Item{Kind: ItemError, Name: name.text, Inputs: inputs}, nil
}

func (p *parser) parseConstructor() (Item, error) {
	inputs, err := p.parseParamList(false)
	if err != nil {
		return Item{}, err
	}
	item := Item{Kind: ItemConstructor, Inputs: inputs}
	if p.peek().kind == tokIdent && (p.peek().text == "payable" || p.peek().text == "nonpayable") {
		item.Mutability = p.peek().text
		p.next()
	}
	p.skipStray(tokSemicolon)
	return item, nil
}

// parseStruct consumes "NAME { (type ident ;)+ }" and registers the tuple
// template under NAME, available to subsequent declarations only.
func (p *parser) parseStruct() error {
	name, err := p.expect(tokIdent, "struct name")
	if err != nil {
		return err
	}
	if _, exists := p.structs[name.text]; exists {
		return ecode.New(ecode.Schema, "human: parseStruct", "duplicate struct "+name.text)
	}
	if _, err := p.expect(tokLBrace, "'{'"); err != nil {
		return err
	}
	var fields []abi.Parameter
	for p.peek().kind != tokRBrace {
		typ, err := p.parseType()
		if err != nil {
			return err
		}
		fieldName, err := p.expect(tokIdent, "field name")
		if err != nil {
			return err
		}
		typ.Name = fieldName.text
		if _, err := p.expect(tokSemicolon, "';'"); err != nil {
			return err
		}
		fields = append(fields, typ)
	}
	p.next() // consume '}'
	p.structs[name.text] = abi.Parameter{Name: name.text, Type: abi.KindTuple, Components: fields}
	return nil
}

// parseParamList parses "( param (, param)* )". allowIndexed permits the
// "indexed" event-input modifier.
func (p *parser) parseParamList(allowIndexed bool) ([]abi.Parameter, error) {
	if _, err := p.expect(tokLParen, "'('"); err != nil {
		return nil, err
	}
	var params []abi.Parameter
	if p.peek().kind == tokRParen {
		p.next()
		return params, nil
	}
	for {
		param, err := p.parseParam(allowIndexed)
		if err != nil {
			return nil, err
		}
		params = append(params, param)
		if p.peek().kind == tokComma {
			p.next()
			continue
		}
		break
	}
	if _, err := p.expect(tokRParen, "')'"); err != nil {
		return nil, err
	}
	return params, nil
}

func (p *parser) parseParam(allowIndexed bool) (abi.Parameter, error) {
	typ, err := p.parseType()
	if err != nil {
		return abi.Parameter{}, err
	}
	for p.peek().kind == tokIdent {
		switch p.peek().text {
		case "indexed":
			if !allowIndexed {
				return abi.Parameter{}, ecode.New(ecode.Schema, "human: parseParam", "indexed not permitted here")
			}
			typ.Indexed = true
			p.next()
		case "memory", "calldata", "storage":
			return abi.Parameter{}, ecode.New(ecode.Schema, "human: parseParam", "invalid data location for ABI parameter: "+p.peek().text)
		default:
			goto name
		}
	}
name:
	if p.peek().kind == tokIdent && !keywords[p.peek().text] {
		typ.Name = p.next().text
	}
	return typ, nil
}

// parseType parses "primitive | tuple_type | struct_name", each optionally
// followed by one or more "[n]"/"[]" array suffixes.
func (p *parser) parseType() (abi.Parameter, error) {
	base, err := p.parseBaseType()
	if err != nil {
		return abi.Parameter{}, err
	}
	for p.peek().kind == tokLBracket {
		p.next()
		if p.peek().kind == tokRBracket {
			p.next()
			elem := base
			base = abi.Parameter{Type: abi.KindDynamicArray, Elem: &elem}
			continue
		}
		numTok, err := p.expect(tokNumber, "array length")
		if err != nil {
			return abi.Parameter{}, err
		}
		if _, err := p.expect(tokRBracket, "']'"); err != nil {
			return abi.Parameter{}, err
		}
		n, err := strconv.Atoi(numTok.text)
		if err != nil {
			return abi.Parameter{}, ecode.Wrap(ecode.Schema, "human: parseType", err)
		}
		elem := base
		base = abi.Parameter{Type: abi.KindFixedArray, ArrayLen: n, Elem: &elem}
	}
	return base, nil
}

func (p *parser) parseBaseType() (abi.Parameter, error) {
	t := p.peek()
	if t.kind == tokLParen {
		return p.parseTupleType()
	}
	if t.kind != tokIdent {
		return abi.Parameter{}, ecode.New(ecode.Schema, "human: parseBaseType", "expected a type, got \""+t.text+"\"")
	}
	if isTypeKeyword(t.text) {
		p.next()
		return primitiveParameter(t.text)
	}
	// Not a primitive keyword: must be a previously declared struct name.
	if tmpl, ok := p.structs[t.text]; ok {
		p.next()
		return tmpl, nil
	}
	return abi.Parameter{}, ecode.New(ecode.Schema, "human: parseBaseType", "missing type declaration for \""+t.text+"\"")
}

func (p *parser) parseTupleType() (abi.Parameter, error) {
	if _, err := p.expect(tokLParen, "'('"); err != nil {
		return abi.Parameter{}, err
	}
	var comps []abi.Parameter
	if p.peek().kind != tokRParen {
		for {
			c, err := p.parseType()
			if err != nil {
				return abi.Parameter{}, err
			}
			comps = append(comps, c)
			if p.peek().kind == tokComma {
				p.next()
				continue
			}
			break
		}
	}
	if _, err := p.expect(tokRParen, "')'"); err != nil {
		return abi.Parameter{}, err
	}
	return abi.Parameter{Type: abi.KindTuple, Components: comps}, nil
}

func primitiveParameter(name string) (abi.Parameter, error) {
	switch {
	case name == "address":
		return abi.Parameter{Type: abi.KindAddress}, nil
	case name == "bool":
		return abi.Parameter{Type: abi.KindBool}, nil
	case name == "string":
		return abi.Parameter{Type: abi.KindString}, nil
	case name == "bytes":
		return abi.Parameter{Type: abi.KindBytes}, nil
	case name == "tuple":
		return abi.Parameter{}, ecode.New(ecode.Schema, "human: primitiveParameter", `bare "tuple" keyword requires a parenthesized component list`)
	}
	if n, ok := stripDigitSuffix(name, "uint"); ok && n != "" {
		bits, _ := strconv.Atoi(n)
		if bits%8 != 0 || bits < 8 || bits > 256 {
			return abi.Parameter{}, ecode.New(ecode.Schema, "human: primitiveParameter", "invalid uint width "+n)
		}
		return abi.Parameter{Type: abi.KindUint, BitSize: bits}, nil
	}
	if n, ok := stripDigitSuffix(name, "int"); ok && n != "" {
		bits, _ := strconv.Atoi(n)
		if bits%8 != 0 || bits < 8 || bits > 256 {
			return abi.Parameter{}, ecode.New(ecode.Schema, "human: primitiveParameter", "invalid int width "+n)
		}
		return abi.Parameter{Type: abi.KindInt, BitSize: bits}, nil
	}
	if n, ok := stripDigitSuffix(name, "bytes"); ok && n != "" {
		size, _ := strconv.Atoi(n)
		if size < 1 || size > 32 {
			return abi.Parameter{}, ecode.New(ecode.Schema, "human: primitiveParameter", "invalid bytesN width "+n)
		}
		return abi.Parameter{Type: abi.KindBytesN, ByteSize: size}, nil
	}
	return abi.Parameter{}, ecode.New(ecode.Schema, "human: primitiveParameter", "invalid type \""+name+"\"")
}
