package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/wricardo/klondike/game/engine"
	"github.com/wricardo/klondike/game/service"
)

var (
	ErrDealNotFound = fmt.Errorf("deal %w", service.ErrNotFound)
	ErrInvalidDeal  = fmt.Errorf("%w deal", service.ErrInvalid)
)

// DefaultDealName names the built-in layout used when no deal file is found.
const DefaultDealName = "standard"

const dealExt = ".txt"

// Manager handles loading and caching of named starting boards ("deals")
// stored as save-format files.
type Manager struct {
	dealsDir    string
	defaultDeal *engine.Board
	defaultName string
	deals       map[string]*engine.Board
	mu          sync.RWMutex
}

// NewManager creates a deal manager over dealsDir, which must exist.
func NewManager(dealsDir string) (*Manager, error) {
	if _, err := os.Stat(dealsDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("deals directory does not exist: %s", dealsDir)
	}

	m := &Manager{
		dealsDir: dealsDir,
		deals:    make(map[string]*engine.Board),
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadDefaultDeal()

	return m, nil
}

// LoadDeal returns a fresh copy of the named deal.
func (m *Manager) LoadDeal(name string) (*engine.Board, error) {
	name = strings.TrimSuffix(name, dealExt)

	m.mu.RLock()
	if deal, exists := m.deals[name]; exists {
		m.mu.RUnlock()
		return deal.Clone(), nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	deal, err := m.loadDeal(name)
	if err != nil {
		return nil, err
	}
	return deal.Clone(), nil
}

// loadDeal reads and caches a deal. Callers must hold the write lock.
func (m *Manager) loadDeal(name string) (*engine.Board, error) {
	if deal, exists := m.deals[name]; exists {
		return deal, nil
	}
	if name == "" || name != filepath.Base(name) {
		return nil, fmt.Errorf("%w: bad deal name %q", ErrInvalidDeal, name)
	}

	deal, err := engine.LoadBoardFile(m.dealPath(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if name == DefaultDealName {
				deal = engine.StandardDeal()
				m.deals[name] = deal
				return deal, nil
			}
			return nil, ErrDealNotFound
		}
		if errors.Is(err, engine.ErrFormat) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDeal, err)
		}
		return nil, fmt.Errorf("failed to read deal file: %w", err)
	}

	if err := engine.ValidateDeal(deal); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDeal, err)
	}

	m.deals[name] = deal
	return deal, nil
}

func (m *Manager) dealPath(name string) string {
	return filepath.Join(m.dealsDir, name+dealExt)
}

// ListDeals returns every valid deal in the directory plus the built-in
// standard layout when no file overrides it.
func (m *Manager) ListDeals() ([]*service.DealInfo, error) {
	entries, err := os.ReadDir(m.dealsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read deals directory: %w", err)
	}

	var deals []*service.DealInfo
	haveStandard := false

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), dealExt) {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), dealExt)

		deal, err := m.LoadDeal(name)
		if err != nil {
			log.Printf("Warning: skipping deal %s: %v", entry.Name(), err)
			continue
		}
		if name == DefaultDealName {
			haveStandard = true
		}
		deals = append(deals, describeDeal(name, entry.Name(), deal))
	}

	if !haveStandard {
		deals = append(deals, describeDeal(DefaultDealName, "", engine.StandardDeal()))
		deals[len(deals)-1].BuiltIn = true
	}

	sort.Slice(deals, func(i, j int) bool { return deals[i].DealID < deals[j].DealID })
	return deals, nil
}

func describeDeal(id, filename string, b *engine.Board) *service.DealInfo {
	faceDown := 0
	for _, p := range b.Piles() {
		faceDown += engine.CountFaceDown(p)
	}
	return &service.DealInfo{
		Filename:        filename,
		DealID:          id,
		StockCards:      b.Stock().Size(),
		FaceDownCards:   faceDown,
		FoundationCards: engine.FoundationCount(b),
	}
}

// GetDefault returns a copy of the default deal and its name.
func (m *Manager) GetDefault() (*engine.Board, string) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultDeal.Clone(), m.defaultName
}

// SetDefault makes name the default deal.
func (m *Manager) SetDefault(name string) error {
	name = strings.TrimSuffix(name, dealExt)

	m.mu.Lock()
	defer m.mu.Unlock()

	deal, err := m.loadDeal(name)
	if err != nil {
		return err
	}
	m.defaultDeal = deal
	m.defaultName = name
	return nil
}

// RefreshCache drops every cached deal and reloads the default from disk.
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	name := m.defaultName
	m.deals = make(map[string]*engine.Board)

	if deal, err := m.loadDeal(name); err == nil {
		m.defaultDeal = deal
		return nil
	}
	m.loadDefaultDeal()
	return nil
}

// loadDefaultDeal picks standard.txt, else the first valid deal file, else
// the built-in layout. Callers must hold the write lock.
func (m *Manager) loadDefaultDeal() {
	if _, err := os.Stat(m.dealPath(DefaultDealName)); err == nil {
		if deal, err := m.loadDeal(DefaultDealName); err == nil {
			m.defaultDeal, m.defaultName = deal, DefaultDealName
			return
		}
	}

	entries, err := os.ReadDir(m.dealsDir)
	if err == nil {
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), dealExt) {
				continue
			}
			name := strings.TrimSuffix(entry.Name(), dealExt)
			if deal, err := m.loadDeal(name); err == nil {
				m.defaultDeal, m.defaultName = deal, name
				return
			}
		}
	}

	m.defaultDeal, m.defaultName = engine.StandardDeal(), DefaultDealName
}

// SaveDeal validates b and writes it to the deals directory.
func (m *Manager) SaveDeal(name string, b *engine.Board) error {
	name = strings.TrimSuffix(name, dealExt)
	if name == "" || name != filepath.Base(name) {
		return fmt.Errorf("%w: bad deal name %q", ErrInvalidDeal, name)
	}
	if err := engine.ValidateDeal(b); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDeal, err)
	}

	if err := engine.SaveBoardFile(m.dealPath(name), b); err != nil {
		return fmt.Errorf("failed to write deal file: %w", err)
	}

	m.mu.Lock()
	m.deals[name] = b.Clone()
	m.mu.Unlock()

	return nil
}
