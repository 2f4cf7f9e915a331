package ssa

// This file implements the two optional post-construction sweeps a
// MethodBuilder runs on Dispose when Config.RunDeadBlockSweep /
// RunDeadCodeSweep are set (both true in DefaultConfig). Trivial-phi
// elimination itself lives in ssavars.go, shared between construction-time
// use and the dead-block sweep's phi-arg pruning below.

// runDeadBlockSweep drops every block unreachable from the entry block, and
// prunes any remaining predecessor/phi-argument references to blocks it
// removed, re-running trivial-phi elimination on phis an edge removal may
// have made trivial.
func runDeadBlockSweep(mb *MethodBuilder) {
	reachable := make(map[*BasicBlock]bool)
	queue := []*BasicBlock{mb.entry}
	reachable[mb.entry] = true
	for len(queue) > 0 {
		bb := queue[0]
		queue = queue[1:]
		for _, s := range bb.succs {
			if !reachable[s] {
				reachable[s] = true
				queue = append(queue, s)
			}
		}
	}

	survivors := mb.blocks[:0:0]
	for _, bb := range mb.blocks {
		if reachable[bb] {
			survivors = append(survivors, bb)
		}
	}
	mb.blocks = survivors

	for _, bb := range mb.blocks {
		livePreds := bb.preds[:0:0]
		for _, p := range bb.preds {
			if reachable[p.block] {
				livePreds = append(livePreds, p)
			}
		}
		prunedAnEdge := len(livePreds) != len(bb.preds)
		bb.preds = livePreds
		switch len(bb.preds) {
		case 1:
			bb.singlePred = bb.preds[0].block
		default:
			bb.singlePred = nil
		}
		if !prunedAnEdge {
			continue
		}
		for _, phi := range bb.phis {
			liveArgs := phi.phiArgs[:0:0]
			for _, a := range phi.phiArgs {
				if reachable[a.pred] {
					liveArgs = append(liveArgs, a)
				}
			}
			phi.phiArgs = liveArgs
			mb.tryRemoveTrivialPhi(phi)
		}
	}
}

// runDeadCodeSweep removes every pure instruction whose result is never
// read, transitively, from a live root: a terminator, any side-effecting
// instruction (atomics, barriers, warp ops, calls, output writes), or any
// instruction those in turn depend on.
func runDeadCodeSweep(mb *MethodBuilder) {
	live := make(map[*Instruction]bool)
	var queue []*Instruction
	enqueue := func(instr *Instruction) {
		if instr == nil || live[instr] {
			return
		}
		live[instr] = true
		queue = append(queue, instr)
	}

	for _, bb := range mb.blocks {
		if bb.term != nil {
			enqueue(bb.term)
		}
		for _, instr := range bb.body {
			if !instr.Opcode.isPure() {
				enqueue(instr)
			}
		}
	}

	for len(queue) > 0 {
		instr := queue[0]
		queue = queue[1:]
		for _, v := range instr.operands() {
			if def, ok := mb.definingInstruction(mb.resolve(v)); ok {
				enqueue(def)
			}
		}
	}

	for _, bb := range mb.blocks {
		body := bb.body[:0:0]
		for _, instr := range bb.body {
			if live[instr] {
				body = append(body, instr)
			}
		}
		bb.body = body

		phis := bb.phis[:0:0]
		for _, p := range bb.phis {
			if live[p] {
				phis = append(phis, p)
			}
		}
		bb.phis = phis
	}
}
