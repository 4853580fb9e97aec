// Package pipeline implements the feature-extraction pipeline executor
// (spec.md §4.7): for each target kind in topological order (profile,
// package, class, method/field), it runs the strategy registry's ordered
// steps over a class-hierarchy view, populating a profile.Manager.
//
// Parallelism is allowed at the level of independent leaf targets —
// different classes run concurrently on a bounded worker pool built on
// golang.org/x/sync/errgroup, matching internal/benchmark's pool shape —
// but never across steps of the same target: a single class's fields,
// methods and own steps always run sequentially on one goroutine.
package pipeline

import (
	"context"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/matrixeditor/libfp/internal/apperr"
	"github.com/matrixeditor/libfp/internal/hierarchy"
	"github.com/matrixeditor/libfp/internal/profile"
	"github.com/matrixeditor/libfp/internal/strategy"
)

// Executor runs a strategy.Registry's steps over a hierarchy.View to build
// a profile.Manager (spec.md §4.7).
type Executor struct {
	Registry *strategy.Registry
	// Concurrency bounds the number of classes processed at once; defaults
	// to runtime.NumCPU() when zero.
	Concurrency int

	// mu guards the descriptor pool and the list extensions' shared Items
	// slices, the only state buildClass touches that is not private to one
	// class — every step itself still runs outside the lock.
	mu sync.Mutex
}

// New returns an Executor bound to registry.
func New(registry *strategy.Registry) *Executor {
	return &Executor{Registry: registry, Concurrency: runtime.NumCPU()}
}

// viewBinder is implemented by IL factories that need the hierarchy.View
// being built to resolve cross-class application-scope references (e.g. a
// method parameter naming another class) deterministically, instead of
// depending on the order classes happen to be processed in.
type viewBinder interface {
	BindView(view hierarchy.View)
}

// Build walks view in topological order — CHA, then packages, then
// classes, then each class's methods and fields — populating m. A policy
// that rejects a class/method/field excludes it (and everything nested
// under it) from the built profile entirely (spec.md §4.6 "policies").
func (e *Executor) Build(ctx context.Context, view hierarchy.View, m *profile.Manager) error {
	if binder, ok := m.ILFactory.(viewBinder); ok {
		binder.BindView(view)
	}

	if err := e.runSteps(profile.KindCHA, m.CHA, view); err != nil {
		return err
	}

	classes := append([]hierarchy.Class(nil), view.Classes()...)
	sort.Slice(classes, func(i, j int) bool { return classes[i].Name() < classes[j].Name() })

	classExt, _ := m.Extension("classes")
	clsList, _ := classExt.(*profile.ClassListExtension)
	methodExt, _ := m.Extension("methods")
	methList, _ := methodExt.(*profile.MethodListExtension)
	fieldExt, _ := m.Extension("fields")
	fldList, _ := fieldExt.(*profile.FieldListExtension)
	pkgExt, _ := m.Extension("packages")
	pkgList, _ := pkgExt.(*profile.PackageListExtension)

	pkgIndex := make(map[string]int)
	if pkgList != nil {
		for _, cls := range classes {
			if _, err := e.ensurePackage(m, pkgList, pkgIndex, cls.Package()); err != nil {
				return err
			}
		}
	}

	concurrency := e.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}
	sem := make(chan struct{}, concurrency)
	var g errgroup.Group

	for _, cls := range classes {
		cls := cls
		if !e.Registry.Eligible(profile.KindClass, cls) {
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case sem <- struct{}{}:
		}
		g.Go(func() error {
			defer func() { <-sem }()
			return e.buildClass(m, cls, clsList, methList, fldList, pkgList, pkgIndex)
		})
	}
	return g.Wait()
}

func (e *Executor) ensurePackage(m *profile.Manager, pkgs *profile.PackageListExtension, index map[string]int, name string) (int, error) {
	if idx, ok := index[name]; ok {
		return idx, nil
	}
	parent := -1
	if name != "" {
		parentName := parentPackage(name)
		var err error
		if parent, err = e.ensurePackage(m, pkgs, index, parentName); err != nil {
			return 0, err
		}
	}
	desc := m.Pool.Add(name)
	pp, idx := pkgs.Add(desc, parent)
	index[name] = idx
	if parent >= 0 {
		pkgs.Items[parent].Children = append(pkgs.Items[parent].Children, idx)
	}
	if err := e.runSteps(profile.KindPackage, pp, name); err != nil {
		return 0, err
	}
	return idx, nil
}

func parentPackage(name string) string {
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '/' {
			return name[:i]
		}
	}
	return ""
}

// MethodTarget is the step target passed for profile.KindMethod: unlike
// the class and field cases, a method's normalization needs its owning
// class too (spec.md §4.5's normalizer takes (class, method) together).
type MethodTarget struct {
	Class  hierarchy.Class
	Method hierarchy.Method
}

// FieldTarget is the step target passed for profile.KindField.
type FieldTarget struct {
	Class hierarchy.Class
	Field hierarchy.Field
}

func (e *Executor) buildClass(
	m *profile.Manager,
	cls hierarchy.Class,
	classes *profile.ClassListExtension,
	methods *profile.MethodListExtension,
	fields *profile.FieldListExtension,
	pkgs *profile.PackageListExtension,
	pkgIndex map[string]int,
) error {
	e.mu.Lock()
	desc := m.Pool.Add(m.ILFactory.ClassDescriptor(cls))
	cp, cidx := classes.Add(desc)
	if pkgs != nil {
		if pidx, ok := pkgIndex[cls.Package()]; ok {
			cp.PackageIndex = pidx
			pkgs.Items[pidx].ClassIndexes = append(pkgs.Items[pidx].ClassIndexes, cidx)
		}
	}
	e.mu.Unlock()

	if err := e.runSteps(profile.KindClass, cp, cls); err != nil {
		return err
	}

	if fields != nil {
		for _, f := range cls.Fields() {
			if !e.Registry.Eligible(profile.KindField, f) {
				continue
			}
			e.mu.Lock()
			fdesc := m.Pool.Add(m.ILFactory.FieldDescriptor(cls, f))
			fp, fidx := fields.Add(fdesc)
			e.mu.Unlock()
			if err := e.runSteps(profile.KindField, fp, FieldTarget{Class: cls, Field: f}); err != nil {
				return err
			}
			cp.FieldIdxs = append(cp.FieldIdxs, fidx)
		}
	}

	if methods != nil {
		for _, meth := range cls.Methods() {
			if !e.Registry.Eligible(profile.KindMethod, meth) {
				continue
			}
			e.mu.Lock()
			mdesc := m.Pool.Add(m.ILFactory.MethodDescriptor(cls, meth))
			mp, midx := methods.Add(mdesc)
			e.mu.Unlock()
			if err := e.runSteps(profile.KindMethod, mp, MethodTarget{Class: cls, Method: meth}); err != nil {
				return err
			}
			cp.MethodIdxs = append(cp.MethodIdxs, midx)
		}
	}

	return nil
}

// runSteps runs every step registered for kind, in priority/insertion
// order, against (reference, target). Steps for one target always run
// sequentially on the calling goroutine (spec.md §4.7: "never across steps
// of the same target").
func (e *Executor) runSteps(kind profile.Kind, reference profile.Managed, target interface{}) error {
	for _, step := range e.Registry.GetFeatureExtractors(kind) {
		if err := step.Run(reference, target); err != nil {
			return apperr.Wrap(err)
		}
	}
	return nil
}
