package app

import (
	"github.com/specialistvlad/tickgrid/internal/registry"
	"github.com/specialistvlad/tickgrid/modules/counter"
	"github.com/specialistvlad/tickgrid/modules/emit"
	"github.com/specialistvlad/tickgrid/modules/print"
)

// coreModules is the list of job modules compiled into the tickgrid binary.
var coreModules = []registry.Module{
	&print.Module{},
	&counter.Module{},
	&emit.Module{},
}
