package geoid

import (
	"fmt"
	"sort"
	"sync"
)

// loadOrder is the order in which file formats are tried for a model name.
var loadOrder = []Format{FormatLZ4, FormatZstd, FormatGzip, FormatBinary, FormatASCII, FormatISG}

// Loader loads models by name from a ModelStorage and keeps them cached.
type Loader struct {
	mu      sync.Mutex
	cache   map[string]*MemoryGrid
	storage ModelStorage
}

func NewLoader(storage ModelStorage) *Loader {
	return &Loader{
		cache:   make(map[string]*MemoryGrid),
		storage: storage,
	}
}

func NewLoaderWithCustomDir(directory string) (*Loader, error) {
	storage, err := NewLocalFileModelStorage(directory)
	if err != nil {
		return nil, err
	}
	return NewLoader(storage), nil
}

// Load returns the model called name. name is either a file name with a
// known suffix, or a stem tried with every suffix in turn. Well-known model
// names resolve to their file stem and are checked against their lattice.
func (l *Loader) Load(name string) (*MemoryGrid, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if g, ok := l.cache[name]; ok {
		return g, nil
	}

	g, err := l.loadContents(name)
	if err != nil {
		return nil, err
	}
	l.cache[name] = g
	Logf("geoid: loaded %s: %v", name, g.GridInfo())
	return g, nil
}

func (l *Loader) loadContents(name string) (*MemoryGrid, error) {
	if _, err := FormatFromName(name); err == nil {
		data, err := l.storage.LoadFile(name)
		if err != nil {
			if l.storage.IsNotExists(err) {
				return nil, fmt.Errorf("%w: %s", ErrModelNotFound, name)
			}
			return nil, err
		}
		return DecodeModel(name, data)
	}

	stem := name
	known, isKnown := LookupModel(name)
	if isKnown {
		stem = known.Stem
	}

	for _, format := range loadOrder {
		fileName := stem + format.Ext()
		data, err := l.storage.LoadFile(fileName)
		if err != nil {
			if l.storage.IsNotExists(err) {
				continue
			}
			return nil, err
		}
		g, err := DecodeModelFormat(format, data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", fileName, err)
		}
		if isKnown {
			if err := known.Check(g.GridInfo()); err != nil {
				return nil, err
			}
		}
		return g, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrModelNotFound, name)
}

// GetHeight returns the height at (lng, lat) in the model called name.
func (l *Loader) GetHeight(name string, lng, lat float64) (float64, error) {
	g, err := l.Load(name)
	if err != nil {
		return 0, err
	}
	return g.GetHeight(lng, lat), nil
}

// Save stores g as stem+format.Ext() and caches it under stem.
func (l *Loader) Save(stem string, format Format, g *MemoryGrid) error {
	data, err := EncodeModel(format, g)
	if err != nil {
		return err
	}
	if err := l.storage.SaveFile(stem+format.Ext(), data); err != nil {
		return err
	}

	l.mu.Lock()
	l.cache[stem] = g
	l.mu.Unlock()
	return nil
}

// Loaded lists the names of cached models.
func (l *Loader) Loaded() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	names := make([]string, 0, len(l.cache))
	for name := range l.cache {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Evict drops a model from the cache.
func (l *Loader) Evict(name string) {
	l.mu.Lock()
	delete(l.cache, name)
	l.mu.Unlock()
}
