package logger

import "sync"

// Named loggers let an application route a kit component's output through a
// specifically configured logger (its own level, format, or sink) while every
// other component keeps using the global one.
var (
	namedMu sync.RWMutex
	named   = make(map[string]*Logger)
)

// Register stores l as the logger for name, replacing any previous one.
// Call before building bags so components pick the instance up via Get.
func Register(name string, l *Logger) {
	namedMu.Lock()
	named[name] = l
	namedMu.Unlock()
}

// Get returns the logger registered under name. Unregistered names fall back
// to the global logger tagged with name as its component, so call sites like
// logger.Get("magicbag") work without any prior registration.
func Get(name string) *Logger {
	namedMu.RLock()
	l, ok := named[name]
	namedMu.RUnlock()
	if ok {
		return l
	}
	return GetGlobalLogger().WithComponent(name)
}
