package anchor

import "github.com/jorge-barreto/srcparam/internal/param"

// Binding is the set of parameters synthesized after one Z-height anchor. Values keep
// the order in which kinds were first bound.
type Binding struct {
	Z      float64
	Values []param.Value
}

// Get returns the bound value of kind k.
func (b Binding) Get(k param.Kind) (param.Value, bool) {
	for _, v := range b.Values {
		if v.Kind == k {
			return v, true
		}
	}
	return param.Value{}, false
}

// Overlay maps Z-height anchors to parameters that exist only at synthesis time.
// Bindings are kept in the order their anchors were first bound.
type Overlay struct {
	Bindings []Binding
}

func (o *Overlay) find(z float64) int {
	for i, b := range o.Bindings {
		if SameZ(b.Z, z) {
			return i
		}
	}
	return -1
}

// Lookup returns the binding for z.
func (o *Overlay) Lookup(z float64) (Binding, bool) {
	if i := o.find(z); i >= 0 {
		return o.Bindings[i], true
	}
	return Binding{}, false
}

// Set binds v at z, replacing an existing value of the same kind in place.
func (o *Overlay) Set(z float64, v param.Value) {
	i := o.find(z)
	if i < 0 {
		o.Bindings = append(o.Bindings, Binding{Z: z})
		i = len(o.Bindings) - 1
	}
	b := &o.Bindings[i]
	for j := range b.Values {
		if b.Values[j].Kind == v.Kind {
			b.Values[j] = v
			return
		}
	}
	b.Values = append(b.Values, v)
}

// Remove unbinds kind k at z and reports whether anything was removed. An emptied
// binding is dropped.
func (o *Overlay) Remove(z float64, k param.Kind) bool {
	i := o.find(z)
	if i < 0 {
		return false
	}
	b := &o.Bindings[i]
	for j := range b.Values {
		if b.Values[j].Kind == k {
			b.Values = append(b.Values[:j], b.Values[j+1:]...)
			if len(b.Values) == 0 {
				o.Bindings = append(o.Bindings[:i], o.Bindings[i+1:]...)
			}
			return true
		}
	}
	return false
}

// Len returns the number of bound values across all anchors.
func (o *Overlay) Len() int {
	n := 0
	for _, b := range o.Bindings {
		n += len(b.Values)
	}
	return n
}

// Clone returns a deep copy.
func (o *Overlay) Clone() *Overlay {
	cp := &Overlay{Bindings: make([]Binding, len(o.Bindings))}
	for i, b := range o.Bindings {
		cp.Bindings[i] = Binding{Z: b.Z, Values: append([]param.Value(nil), b.Values...)}
	}
	return cp
}
