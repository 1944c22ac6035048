package memstore_test

import (
	"testing"

	"github.com/quadfusion/engine/internal/enginecore"
	"github.com/quadfusion/engine/internal/memstore"
	"github.com/quadfusion/engine/internal/storagetest"
)

func TestMemQuadStorageConformance(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) enginecore.QuadStorage { return memstore.New() })
}
