// Package kpistore is for persisting KPI rows and recording runs.
package kpistore

import (
	"sync"

	"github.com/huangsam/kpitrend/internal/contract"
)

// StoreManagerImpl manages the sheet store and the run store.
type StoreManagerImpl struct {
	sync.RWMutex // Protects the store pointers during initialization
	sheet        contract.SheetStore
	runs         contract.RunStore
}

var _ contract.StoreManager = &StoreManagerImpl{} // Compile-time check

// GetSheetStore returns the KPI sheet store.
func (mgr *StoreManagerImpl) GetSheetStore() contract.SheetStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.sheet
}

// GetRunStore returns the run tracking store.
func (mgr *StoreManagerImpl) GetRunStore() contract.RunStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.runs
}
