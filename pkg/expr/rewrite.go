package expr

// Rule rewrites a single node. A rule returns its input unchanged when it
// does not apply to that kind of node.
type Rule func(Node) Node

// Rewrite applies rule to every node of the tree, children first.
// The node returned by rule is not visited again, so a rule that wraps a
// Column in a function does not see that Column a second time.
func Rewrite(n Node, rule Rule) Node {
	if n == nil {
		return nil
	}
	switch v := n.(type) {
	case Func:
		n = Func{Name: v.Name, Args: rewriteAll(v.Args, rule)}
	case Concat:
		n = Concat{Args: rewriteAll(v.Args, rule)}
	case Cast:
		n = Cast{Expr: Rewrite(v.Expr, rule), Type: v.Type}
	case Collate:
		n = Collate{Expr: Rewrite(v.Expr, rule), Collation: v.Collation}
	case Alias:
		n = Alias{Expr: Rewrite(v.Expr, rule), Name: v.Name}
	case Select:
		n = Select{Fields: rewriteAll(v.Fields, rule), From: v.From, Where: v.Where}
	}
	return rule(n)
}

func rewriteAll(nodes []Node, rule Rule) []Node {
	if nodes == nil {
		return nil
	}
	out := make([]Node, len(nodes))
	for i, c := range nodes {
		out[i] = Rewrite(c, rule)
	}
	return out
}

// Apply runs each rule once against the root of the tree, in order.
func Apply(n Node, rules ...Rule) Node {
	for _, rule := range rules {
		n = rule(n)
	}
	return n
}

// Walk visits n and its children depth first. Returning false from fn
// stops descent into the children of that node.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	switch v := n.(type) {
	case Func:
		for _, c := range v.Args {
			Walk(c, fn)
		}
	case Concat:
		for _, c := range v.Args {
			Walk(c, fn)
		}
	case Cast:
		Walk(v.Expr, fn)
	case Collate:
		Walk(v.Expr, fn)
	case Alias:
		Walk(v.Expr, fn)
	case Select:
		for _, c := range v.Fields {
			Walk(c, fn)
		}
	}
}

// Columns returns the names of the columns referenced by n in the order they
// appear. Raw fragments are opaque and contribute nothing.
func Columns(n Node) []string {
	var cols []string
	Walk(n, func(n Node) bool {
		if c, ok := n.(Column); ok {
			cols = append(cols, c.Name)
		}
		return true
	})
	return cols
}

// Lower wraps the root in LOWER(...).
func Lower(n Node) Node {
	return Call("LOWER", n)
}
