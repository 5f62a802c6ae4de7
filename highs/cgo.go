//go:build highs && cgo && (linux || darwin)

package highs

/*
#cgo pkg-config: highs

#include <stdlib.h>
#include <stdint.h>
#include "highs_c_api.h"
*/
import "C"
import (
	"runtime"
	"unsafe"
)

func (v VariableType) toC() C.HighsInt {
	if v == Integer {
		return C.kHighsVarTypeInteger
	}
	return C.kHighsVarTypeContinuous
}

func modelStatusFromC(status C.HighsInt) ModelStatus {
	switch status {
	case C.kHighsModelStatusNotset:
		return ModelStatusNotSet
	case C.kHighsModelStatusLoadError:
		return ModelStatusLoadError
	case C.kHighsModelStatusModelError:
		return ModelStatusModelError
	case C.kHighsModelStatusPresolveError:
		return ModelStatusPresolveError
	case C.kHighsModelStatusSolveError:
		return ModelStatusSolveError
	case C.kHighsModelStatusPostsolveError:
		return ModelStatusPostsolveError
	case C.kHighsModelStatusModelEmpty:
		return ModelStatusModelEmpty
	case C.kHighsModelStatusOptimal:
		return ModelStatusOptimal
	case C.kHighsModelStatusInfeasible:
		return ModelStatusInfeasible
	case C.kHighsModelStatusUnboundedOrInfeasible:
		return ModelStatusUnboundedOrInfeasible
	case C.kHighsModelStatusUnbounded:
		return ModelStatusUnbounded
	case C.kHighsModelStatusObjectiveBound:
		return ModelStatusObjectiveBound
	case C.kHighsModelStatusObjectiveTarget:
		return ModelStatusObjectiveTarget
	case C.kHighsModelStatusTimeLimit:
		return ModelStatusTimeLimit
	case C.kHighsModelStatusIterationLimit:
		return ModelStatusIterationLimit
	default:
		return ModelStatusUnknown
	}
}

// Solver wraps a native HiGHS instance.
//
// Always call Close() when done to release resources:
//
//	solver, _ := NewSolver()
//	defer solver.Close()
type Solver struct {
	ptr unsafe.Pointer
}

// NewSolver creates a new HiGHS solver instance.
func NewSolver() (*Solver, error) {
	ptr := C.Highs_create()
	if ptr == nil {
		return nil, newErrorMsg("NewSolver", "failed to create HiGHS instance")
	}

	s := &Solver{ptr: ptr}
	runtime.SetFinalizer(s, (*Solver).Close)
	return s, nil
}

// Close releases the native instance. It is safe to call Close multiple times.
func (s *Solver) Close() {
	if s.ptr != nil {
		C.Highs_destroy(s.ptr)
		s.ptr = nil
	}
}

// SetBoolOption sets a boolean option.
func (s *Solver) SetBoolOption(name string, value bool) error {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))

	var cVal C.HighsInt
	if value {
		cVal = 1
	}
	status := Status(C.Highs_setBoolOptionValue(s.ptr, cName, cVal))
	return newError("SetBoolOption", status)
}

// SetIntOption sets an integer option.
func (s *Solver) SetIntOption(name string, value int) error {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))

	status := Status(C.Highs_setIntOptionValue(s.ptr, cName, C.HighsInt(value)))
	return newError("SetIntOption", status)
}

// SetFloatOption sets a floating-point option.
func (s *Solver) SetFloatOption(name string, value float64) error {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))

	status := Status(C.Highs_setDoubleOptionValue(s.ptr, cName, C.double(value)))
	return newError("SetFloatOption", status)
}

// SetStringOption sets a string option.
func (s *Solver) SetStringOption(name, value string) error {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))
	cVal := C.CString(value)
	defer C.free(unsafe.Pointer(cVal))

	status := Status(C.Highs_setStringOptionValue(s.ptr, cName, cVal))
	return newError("SetStringOption", status)
}

// PassModel loads a complete row-wise model in one call.
func (s *Solver) PassModel(
	numCol, numRow int,
	colCost, colLower, colUpper []float64,
	rowLower, rowUpper []float64,
	aStart, aIndex []int,
	aValue []float64,
	integrality []VariableType,
	maximize bool,
	offset float64,
) error {
	sense := C.kHighsObjSenseMinimize
	if maximize {
		sense = C.kHighsObjSenseMaximize
	}

	cAStart := toHighsInts(aStart)
	cAIndex := toHighsInts(aIndex)

	var pIntegrality *C.HighsInt
	if len(integrality) > 0 {
		cIntegrality := make([]C.HighsInt, len(integrality))
		for i, vt := range integrality {
			cIntegrality[i] = vt.toC()
		}
		pIntegrality = &cIntegrality[0]
	}

	var pAStart, pAIndex *C.HighsInt
	if len(cAStart) > 0 {
		pAStart = &cAStart[0]
	}
	if len(cAIndex) > 0 {
		pAIndex = &cAIndex[0]
	}

	status := Status(C.Highs_passModel(s.ptr,
		C.HighsInt(numCol), C.HighsInt(numRow),
		C.HighsInt(len(aValue)), 0,
		C.kHighsMatrixFormatRowwise, C.kHighsHessianFormatTriangular,
		C.HighsInt(sense), C.double(offset),
		doublePtr(colCost), doublePtr(colLower), doublePtr(colUpper),
		doublePtr(rowLower), doublePtr(rowUpper),
		pAStart, pAIndex, doublePtr(aValue),
		nil, nil, nil,
		pIntegrality))
	return newError("PassModel", status)
}

// Run solves the loaded model and returns the primal solution.
func (s *Solver) Run() (*Solution, error) {
	status := Status(C.Highs_run(s.ptr))
	if status == StatusError {
		return nil, newError("Run", status)
	}

	modelStatus := modelStatusFromC(C.Highs_getModelStatus(s.ptr))
	numCol := int(C.Highs_getNumCol(s.ptr))
	numRow := int(C.Highs_getNumRow(s.ptr))

	colValue := make([]float64, numCol)
	rowValue := make([]float64, numRow)

	// HiGHS fills duals only for LPs; the buffers must exist regardless.
	colDual := make([]float64, numCol)
	rowDual := make([]float64, numRow)

	C.Highs_getSolution(s.ptr,
		doublePtr(colValue), doublePtr(colDual),
		doublePtr(rowValue), doublePtr(rowDual))

	sol := &Solution{
		Status:    modelStatus,
		ColValues: colValue,
		RowValues: rowValue,
		Objective: float64(C.Highs_getObjectiveValue(s.ptr)),
	}

	cName := C.CString("mip_gap")
	defer C.free(unsafe.Pointer(cName))
	var gap C.double
	if Status(C.Highs_getDoubleInfoValue(s.ptr, cName, &gap)) == StatusOK {
		sol.MIPGap = float64(gap)
	}

	return sol, nil
}

func toHighsInts(v []int) []C.HighsInt {
	out := make([]C.HighsInt, len(v))
	for i, x := range v {
		out[i] = C.HighsInt(x)
	}
	return out
}

func doublePtr(v []float64) *C.double {
	if len(v) == 0 {
		return nil
	}
	return (*C.double)(&v[0])
}
