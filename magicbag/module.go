package magicbag

// Module installs a group of related mappings at once, so wiring code can be
// packaged and reused across bags.
type Module interface {
	Install(b *Builder) error
}

// ModuleFunc adapts a plain function to the Module interface.
type ModuleFunc func(b *Builder) error

// Install applies the function to the builder.
func (f ModuleFunc) Install(b *Builder) error {
	return f(b)
}
