// Command bjac-dump builds a small iterative Fibonacci function, prints it,
// runs the constant-folding, peephole, and dead-code-elimination passes over
// it, and prints the result.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/dshills/bjac/internal/ir"
	"github.com/dshills/bjac/internal/passes"
	"github.com/dshills/bjac/internal/printer"
)

func main() {
	var skipPasses bool
	flag.BoolVar(&skipPasses, "no-passes", false, "print the unoptimized function only")
	flag.Parse()

	f, err := buildFibonacci()
	if err != nil {
		log.Fatalf("bjac-dump: building fibonacci: %v", err)
	}

	before, err := printer.Sprint(f)
	if err != nil {
		log.Fatalf("bjac-dump: printing before passes: %v", err)
	}
	fmt.Fprintln(os.Stdout, "; before")
	fmt.Fprint(os.Stdout, before)

	if skipPasses {
		return
	}

	passes.ConstantFold(f)
	passes.Peephole(f)
	passes.DCE(f)

	after, err := printer.Sprint(f)
	if err != nil {
		log.Fatalf("bjac-dump: printing after passes: %v", err)
	}
	fmt.Fprintln(os.Stdout, "\n; after")
	fmt.Fprint(os.Stdout, after)
}

// buildFibonacci constructs:
//
//	i64 fibonacci(i64):
//	  entry: if arg < 2, return arg, else fall into the iterative loop
//	  init:  seed prev=0, cur=1, counter=2
//	  loop:  prev, cur, counter = cur, prev+cur, counter+1; repeat while counter < arg
//	  merge: return arg (entry path) or cur (loop path)
func buildFibonacci() (*ir.Function, error) {
	f := ir.New("fibonacci", ir.TypeI64, []ir.Type{ir.TypeI64})

	entry := f.PushBlock()
	initBB := f.PushBlock()
	loop := f.PushBlock()
	merge := f.PushBlock()

	arg, err := entry.EmplaceArg(nil, 0)
	if err != nil {
		return nil, err
	}
	two, err := entry.EmplaceConst(nil, ir.TypeI64, 2)
	if err != nil {
		return nil, err
	}
	cmp, err := entry.EmplaceICmp(nil, ir.ICmpULT, arg, two)
	if err != nil {
		return nil, err
	}
	if _, err := entry.EmplaceCondBranch(nil, cmp, merge, initBB); err != nil {
		return nil, err
	}

	zero, err := initBB.EmplaceConst(nil, ir.TypeI64, 0)
	if err != nil {
		return nil, err
	}
	one, err := initBB.EmplaceConst(nil, ir.TypeI64, 1)
	if err != nil {
		return nil, err
	}
	initCounter, err := initBB.EmplaceConst(nil, ir.TypeI64, 2)
	if err != nil {
		return nil, err
	}
	if _, err := initBB.EmplaceBranch(nil, loop); err != nil {
		return nil, err
	}

	prevPHI, err := loop.EmplacePHI(nil, ir.TypeI64)
	if err != nil {
		return nil, err
	}
	curPHI, err := loop.EmplacePHI(nil, ir.TypeI64)
	if err != nil {
		return nil, err
	}
	counterPHI, err := loop.EmplacePHI(nil, ir.TypeI64)
	if err != nil {
		return nil, err
	}
	next, err := loop.EmplaceBinOp(nil, ir.OpAdd, prevPHI, curPHI)
	if err != nil {
		return nil, err
	}
	nextCounter, err := loop.EmplaceBinOp(nil, ir.OpAdd, counterPHI, one)
	if err != nil {
		return nil, err
	}
	loopCmp, err := loop.EmplaceICmp(nil, ir.ICmpULT, nextCounter, arg)
	if err != nil {
		return nil, err
	}
	if _, err := loop.EmplaceCondBranch(nil, loopCmp, loop, merge); err != nil {
		return nil, err
	}

	if err := prevPHI.AddPath(initBB, zero); err != nil {
		return nil, err
	}
	if err := prevPHI.AddPath(loop, curPHI); err != nil {
		return nil, err
	}
	if err := curPHI.AddPath(initBB, one); err != nil {
		return nil, err
	}
	if err := curPHI.AddPath(loop, next); err != nil {
		return nil, err
	}
	if err := counterPHI.AddPath(initBB, initCounter); err != nil {
		return nil, err
	}
	if err := counterPHI.AddPath(loop, nextCounter); err != nil {
		return nil, err
	}

	mergePHI, err := merge.EmplacePHI(nil, ir.TypeI64)
	if err != nil {
		return nil, err
	}
	if err := mergePHI.AddPath(entry, arg); err != nil {
		return nil, err
	}
	if err := mergePHI.AddPath(loop, next); err != nil {
		return nil, err
	}
	if _, err := merge.EmplaceReturnValue(nil, mergePHI); err != nil {
		return nil, err
	}

	return f, nil
}
