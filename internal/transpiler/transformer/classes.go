package transformer

import (
	"strings"

	"martianoff/tscs/internal/transpiler/csast"
	"martianoff/tscs/internal/transpiler/naming"
	"martianoff/tscs/internal/tsast"
)

type memberInfo struct {
	csName string
	src    tsast.Type
	static bool
	method bool
}

// classInfo is what the transformer knows about a class declared in the
// current file. shape and staticShape feed the type oracle for this.x and
// ClassName.x lookups.
type classInfo struct {
	decl        *tsast.ClassDecl
	name        string
	base        string
	members     map[string]*memberInfo
	shape       *tsast.ObjectOf
	staticShape *tsast.ObjectOf
}

func newClassInfo(ft *fileTransformer, d *tsast.ClassDecl) *classInfo {
	info := &classInfo{
		decl:        d,
		name:        d.Name,
		members:     make(map[string]*memberInfo),
		shape:       &tsast.ObjectOf{Pos: d.Pos},
		staticShape: &tsast.ObjectOf{Pos: d.Pos},
	}
	switch base := d.Extends.(type) {
	case *tsast.NamedRef:
		info.base = base.Name
	case *tsast.GenericRef:
		info.base = base.Name
	}

	add := func(name string, m *memberInfo, optional bool) {
		if _, ok := info.members[name]; ok {
			return
		}
		if m.csName == d.Name {
			m.csName += "Value"
		}
		info.members[name] = m
		target := info.shape
		if m.static {
			target = info.staticShape
		}
		target.Properties = append(target.Properties, &tsast.PropertySig{Name: name, Type: m.src, Optional: optional})
	}

	for _, m := range d.Members {
		switch m := m.(type) {
		case *tsast.PropertyDecl:
			t := m.Type
			if t == nil && m.Init != nil {
				t = ft.typeOfExpr(m.Init)
			}
			add(m.Name, &memberInfo{
				csName: fieldName(m.Name, m.Modifiers.Access),
				src:    t,
				static: m.Modifiers.Static,
			}, m.Optional)
		case *tsast.MethodDecl:
			add(m.Name, &memberInfo{
				csName: ft.methodName(m.Name),
				src:    functionType(m.Params, m.Returns),
				static: m.Modifiers.Static,
				method: true,
			}, false)
		case *tsast.AccessorDecl:
			var t tsast.Type
			if m.Kind == tsast.Getter {
				t = m.Returns
			} else if len(m.Params) > 0 {
				t = m.Params[0].Type
			}
			if prev, ok := info.members[m.Name]; ok {
				if prev.src == nil {
					prev.src = t
				}
				continue
			}
			add(m.Name, &memberInfo{
				csName: naming.PascalCase(m.Name),
				src:    t,
				static: m.Modifiers.Static,
			}, false)
		case *tsast.ConstructorDecl:
			for _, p := range m.Params {
				if p.IsParameterProperty() {
					add(p.Name, &memberInfo{csName: fieldName(p.Name, p.Access), src: p.Type}, p.Optional)
				}
			}
		}
	}
	return info
}

// fieldName spells private members as _camelCase fields and everything
// else as PascalCase properties.
func fieldName(name string, access tsast.Access) string {
	if access == tsast.AccessPrivate || strings.HasPrefix(name, "#") {
		return "_" + naming.CamelCase(strings.TrimLeft(name, "_#"))
	}
	return naming.PascalCase(name)
}

// methodName PascalCases a method name. Leading underscores survive, which
// is how the host API spells lifecycle methods (_Ready, _Process).
func (ft *fileTransformer) methodName(name string) string {
	return naming.PascalCase(strings.TrimPrefix(name, "#"))
}

// lookupMember finds a member on cls or on a base class declared in the same file.
func (ft *fileTransformer) lookupMember(cls *classInfo, name string) (*memberInfo, bool) {
	seen := make(map[string]bool)
	for cls != nil && !seen[cls.name] {
		seen[cls.name] = true
		if m, ok := cls.members[name]; ok {
			return m, true
		}
		cls = ft.classes[cls.base]
	}
	return nil, false
}

func accessOf(a tsast.Access) string {
	switch a {
	case tsast.AccessPrivate:
		return "private"
	case tsast.AccessProtected:
		return "protected"
	}
	return "public"
}

func (ft *fileTransformer) transformClass(d *tsast.ClassDecl) csast.Decl {
	info := ft.classes[d.Name]
	prev := ft.cls
	ft.cls = info
	defer func() { ft.cls = prev }()
	ft.pushScope()
	defer ft.popScope()

	td := &csast.TypeDecl{
		Attributes: ft.attributes(d.Decorators),
		Modifiers:  csast.Modifiers{Access: "public", Abstract: d.Abstract, Partial: true},
		Kind:       csast.KindClass,
		Name:       d.Name,
		TypeParams: ft.typeParams(d.TypeParams),
	}
	if d.Extends != nil {
		td.Bases = append(td.Bases, ft.mapType(d.Extends, ""))
	}
	for _, i := range d.Implements {
		td.Bases = append(td.Bases, ft.mapType(i, ""))
	}

	accessors := make(map[string]*accessorPair)
	for _, m := range d.Members {
		if a, ok := m.(*tsast.AccessorDecl); ok {
			pair := accessors[a.Name]
			if pair == nil {
				pair = &accessorPair{name: a.Name}
				accessors[a.Name] = pair
			}
			if a.Kind == tsast.Getter {
				pair.get = a
			} else {
				pair.set = a
			}
		}
	}

	emitted := make(map[string]bool)
	for _, m := range d.Members {
		switch m := m.(type) {
		case *tsast.PropertyDecl:
			td.Members = append(td.Members, ft.transformProperty(m))
		case *tsast.MethodDecl:
			td.Members = append(td.Members, ft.transformMethod(m))
		case *tsast.ConstructorDecl:
			td.Members = append(td.Members, ft.transformConstructor(d, m)...)
		case *tsast.AccessorDecl:
			if emitted[m.Name] {
				continue
			}
			emitted[m.Name] = true
			td.Members = append(td.Members, ft.transformAccessor(accessors[m.Name]))
		case *tsast.UnmodeledMember:
			ft.warn(m.Pos, "unsupported class member %q; omitted", firstLine(m.Text))
			td.Members = append(td.Members, &csast.CommentMember{Text: "unsupported: " + firstLine(m.Text)})
		}
	}
	return td
}

func (ft *fileTransformer) transformProperty(p *tsast.PropertyDecl) csast.Member {
	mi := ft.cls.members[p.Name]
	typ := ft.declaredType(p.Pos, "property", p.Name, p.Type, p.Init)
	if p.Optional {
		typ = csast.Nullable(typ)
	}
	var init csast.Expr
	if p.Init != nil {
		init = ft.transformExpr(p.Init, typ)
	}

	if strings.HasPrefix(mi.csName, "_") {
		return &csast.FieldDecl{
			Attributes: ft.attributes(p.Decorators),
			Modifiers: csast.Modifiers{
				Access:   "private",
				Static:   p.Modifiers.Static,
				Readonly: p.Modifiers.Readonly,
			},
			Type: typ,
			Name: mi.csName,
			Init: init,
		}
	}

	prop := &csast.PropertyDecl{
		Attributes: ft.attributes(p.Decorators),
		Modifiers: csast.Modifiers{
			Access:   accessOf(p.Modifiers.Access),
			Static:   p.Modifiers.Static,
			Abstract: p.Modifiers.Abstract,
			Override: p.Modifiers.Override,
		},
		Type:   typ,
		Name:   mi.csName,
		Getter: &csast.Accessor{},
		Init:   init,
	}
	if !p.Modifiers.Readonly {
		prop.Setter = &csast.Accessor{}
	}
	return prop
}

func (ft *fileTransformer) transformMethod(m *tsast.MethodDecl) csast.Member {
	mi := ft.cls.members[m.Name]
	ft.pushScope()
	defer ft.popScope()

	params := ft.transformParams(m.Params)
	mods := csast.Modifiers{
		Access:   accessOf(m.Modifiers.Access),
		Static:   m.Modifiers.Static,
		Abstract: m.Modifiers.Abstract,
		Override: m.Modifiers.Override,
		Async:    m.Async && m.Body != nil,
	}
	if ft.reg.IsVirtual(m.Name) {
		mods.Access = "public"
		mods.Override = true
		hostParams(params, ft.numberType())
	}
	returns := ft.methodReturnType(m.Pos, "method "+m.Name, m.Params, m.Returns, m.Body, m.Async)
	return &csast.MethodDecl{
		Attributes: ft.attributes(m.Decorators),
		Modifiers:  mods,
		Returns:    returns,
		Name:       mi.csName,
		TypeParams: ft.typeParams(m.TypeParams),
		Params:     params,
		Body:       ft.functionBody(m.Body, returns, m.Async),
	}
}

// hostParams widens number parameters of lifecycle overrides to double,
// the type the host declares for frame deltas.
func hostParams(params []*csast.Param, number csast.Type) {
	for _, p := range params {
		if csast.Equal(p.Type, number) {
			p.Type = csast.BasicType{Name: "double"}
		}
	}
}

func (ft *fileTransformer) transformConstructor(d *tsast.ClassDecl, c *tsast.ConstructorDecl) []csast.Member {
	ft.pushScope()
	defer ft.popScope()

	params := ft.transformParams(c.Params)
	var members []csast.Member
	var assigns []csast.Stmt
	for i, p := range c.Params {
		if !p.IsParameterProperty() {
			continue
		}
		mi := ft.cls.members[p.Name]
		typ := params[i].Type
		if strings.HasPrefix(mi.csName, "_") {
			members = append(members, &csast.FieldDecl{
				Modifiers: csast.Modifiers{Access: "private", Readonly: p.Readonly},
				Type:      typ,
				Name:      mi.csName,
			})
		} else {
			prop := &csast.PropertyDecl{
				Modifiers: csast.Modifiers{Access: accessOf(p.Access)},
				Type:      typ,
				Name:      mi.csName,
				Getter:    &csast.Accessor{},
			}
			if !p.Readonly {
				prop.Setter = &csast.Accessor{}
			}
			members = append(members, prop)
		}
		assigns = append(assigns, &csast.ExprStmt{X: &csast.Assign{
			Op: "=",
			L:  &csast.Selector{X: csast.NewIdent("this"), Name: mi.csName},
			R:  csast.NewIdent(params[i].Name),
		}})
	}

	ctor := &csast.CtorDecl{
		Modifiers: csast.Modifiers{Access: accessOf(c.Access)},
		Name:      d.Name,
		Params:    params,
	}
	var stmts []tsast.Stmt
	if c.Body != nil {
		stmts = c.Body.Stmts
	}
	if len(stmts) > 0 {
		if call, ok := superCall(stmts[0]); ok {
			ctor.Initializer = &csast.CtorInitializer{Keyword: "base", Args: ft.transformArgs(call.Args, nil)}
			stmts = stmts[1:]
		}
	}
	body := ft.functionBody(&tsast.Block{Stmts: stmts}, csast.Void, false)
	ctor.Body = &csast.Block{Stmts: append(assigns, body.Stmts...)}
	return append(members, ctor)
}

func superCall(s tsast.Stmt) (*tsast.Call, bool) {
	es, ok := s.(*tsast.ExprStmt)
	if !ok {
		return nil, false
	}
	call, ok := es.X.(*tsast.Call)
	if !ok {
		return nil, false
	}
	_, ok = call.Callee.(*tsast.SuperExpr)
	return call, ok
}

type accessorPair struct {
	name string
	get  *tsast.AccessorDecl
	set  *tsast.AccessorDecl
}

func (ft *fileTransformer) transformAccessor(pair *accessorPair) csast.Member {
	mi := ft.cls.members[pair.name]
	first := pair.get
	if first == nil {
		first = pair.set
	}

	var typ csast.Type
	switch {
	case pair.get != nil && pair.get.Returns != nil:
		typ = ft.mapType(pair.get.Returns, pair.name)
	case pair.set != nil && len(pair.set.Params) > 0 && pair.set.Params[0].Type != nil:
		typ = ft.mapType(pair.set.Params[0].Type, pair.name)
	default:
		typ = ft.methodReturnType(first.Pos, "accessor "+pair.name, nil, nil, bodyOf(pair.get), false)
		if csast.IsVoid(typ) {
			typ = csast.Object
		}
	}

	prop := &csast.PropertyDecl{
		Modifiers: csast.Modifiers{
			Access:   accessOf(first.Modifiers.Access),
			Static:   first.Modifiers.Static,
			Abstract: first.Modifiers.Abstract,
			Override: first.Modifiers.Override,
		},
		Type: typ,
		Name: mi.csName,
	}
	if pair.get != nil {
		prop.Attributes = append(prop.Attributes, ft.attributes(pair.get.Decorators)...)
		ft.pushScope()
		prop.Getter = &csast.Accessor{Body: ft.functionBody(pair.get.Body, typ, false)}
		ft.popScope()
	}
	if pair.set != nil {
		prop.Attributes = append(prop.Attributes, ft.attributes(pair.set.Decorators)...)
		ft.pushScope()
		if len(pair.set.Params) > 0 {
			p := pair.set.Params[0]
			ft.addRenamed(p.Name, "value", p.Type, typ)
		}
		prop.Setter = &csast.Accessor{Body: ft.functionBody(pair.set.Body, csast.Void, false)}
		if pair.get != nil && pair.set.Modifiers.Access != pair.get.Modifiers.Access {
			prop.Setter.Access = accessOf(pair.set.Modifiers.Access)
		}
		ft.popScope()
	}
	return prop
}

func bodyOf(a *tsast.AccessorDecl) *tsast.Block {
	if a == nil {
		return nil
	}
	return a.Body
}
