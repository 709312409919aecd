package z80sim

import "fmt"

// maxSteps bounds runaway programs: a malformed or infinitely looping
// program fails loudly instead of hanging a test.
const maxSteps = 1_000_000

// Run assembles and executes asm from a freshly zeroed state with SP set
// to 0xFFFB (pkg/compiler's convention), returning the final state once
// a HALT executes or execution runs past the last instruction.
func Run(asm string) (*State, error) {
	prog, err := Parse(asm)
	if err != nil {
		return nil, err
	}
	s := &State{SP: 0xFFFB}
	if err := prog.Exec(s); err != nil {
		return nil, err
	}
	return s, nil
}

// Exec runs prog against s, starting at instruction index 0, until a
// HALT executes or the program counter moves past the last instruction.
// RET jumps to whatever 16-bit value it pops; a RET without a matching
// CALL does not by itself stop execution.
func (p *Program) Exec(s *State) error {
	return p.ExecFrom(s, 0)
}

// ExecFrom runs prog starting at instruction index start.
func (p *Program) ExecFrom(s *State, start int) error {
	pc := start
	for step := 0; ; step++ {
		if step >= maxSteps {
			return fmt.Errorf("z80sim: exceeded %d steps, suspected infinite loop", maxSteps)
		}
		if pc >= len(p.instrs) {
			return nil
		}
		ins := p.instrs[pc]
		next := pc + 1
		halt, jump, err := p.step(s, ins, next)
		if err != nil {
			return fmt.Errorf("z80sim: pc=%d %s: %w", pc, ins.mnemonic, err)
		}
		if halt {
			s.Halted = true
			return nil
		}
		pc = jump
	}
}

// step executes one instruction, returning whether it halted execution
// and the next program counter.
func (p *Program) step(s *State, ins instruction, next int) (halt bool, pc int, err error) {
	switch ins.mnemonic {
	case "HALT":
		return true, next, nil

	case "LD":
		if err := p.execLD(s, ins.operands); err != nil {
			return false, 0, err
		}
		return false, next, nil

	case "PUSH":
		v, err := get16(s, ins.operands[0])
		if err != nil {
			return false, 0, err
		}
		s.push(v)
		return false, next, nil

	case "POP":
		if err := set16(s, ins.operands[0], s.pop()); err != nil {
			return false, 0, err
		}
		return false, next, nil

	case "ADD", "ADC", "SBC":
		if err := execWordALU(s, ins.mnemonic, ins.operands); err != nil {
			return false, 0, err
		}
		return false, next, nil

	case "OR", "AND":
		if err := execByteALU(s, ins.mnemonic, ins.operands[0]); err != nil {
			return false, 0, err
		}
		return false, next, nil

	case "EX":
		a, err := get16(s, ins.operands[0])
		if err != nil {
			return false, 0, err
		}
		b, err := get16(s, ins.operands[1])
		if err != nil {
			return false, 0, err
		}
		set16(s, ins.operands[0], b)
		set16(s, ins.operands[1], a)
		return false, next, nil

	case "JR", "JP":
		target, taken, err := p.branchTarget(s, ins.operands)
		if err != nil {
			return false, 0, err
		}
		if taken {
			return false, target, nil
		}
		return false, next, nil

	case "CALL":
		target, ok := p.labels[ins.operands[0]]
		if !ok {
			return false, 0, fmt.Errorf("undefined label %q", ins.operands[0])
		}
		s.push(uint16(next))
		return false, target, nil

	case "RET":
		return false, int(s.pop()), nil

	default:
		return false, 0, fmt.Errorf("unsupported mnemonic %q", ins.mnemonic)
	}
}

func (p *Program) branchTarget(s *State, operands []string) (target int, taken bool, err error) {
	var cond, label string
	if len(operands) == 2 {
		cond, label = operands[0], operands[1]
	} else {
		label = operands[0]
	}
	target, ok := p.labels[label]
	if !ok {
		return 0, false, fmt.Errorf("undefined label %q", label)
	}
	switch cond {
	case "":
		return target, true, nil
	case "C":
		return target, s.carry(), nil
	case "NC":
		return target, !s.carry(), nil
	case "Z":
		return target, s.zero(), nil
	case "NZ":
		return target, !s.zero(), nil
	default:
		return 0, false, fmt.Errorf("unsupported branch condition %q", cond)
	}
}

func execWordALU(s *State, op string, operands []string) error {
	dst, err := get16(s, operands[0])
	if err != nil {
		return err
	}
	src, err := get16(s, operands[1])
	if err != nil {
		return err
	}
	var result uint32
	switch op {
	case "ADD":
		result = uint32(dst) + uint32(src)
	case "ADC":
		result = uint32(dst) + uint32(src)
		if s.carry() {
			result++
		}
	case "SBC":
		result = uint32(dst) - uint32(src)
		if s.carry() {
			result--
		}
	}
	// A uint32 SBC that borrows wraps around to a value far above 0xFFFF,
	// so the same overflow check catches carry (ADD/ADC) and borrow
	// (SBC) alike.
	s.setCarry(result > 0xFFFF)
	return set16(s, operands[0], uint16(result))
}

func execByteALU(s *State, op, operand string) error {
	v, err := get8(s, operand)
	if err != nil {
		return err
	}
	switch op {
	case "OR":
		s.A |= v
	case "AND":
		s.A &= v
	}
	s.setZero(s.A == 0)
	s.setCarry(false)
	return nil
}

func (p *Program) execLD(s *State, operands []string) error {
	dst, src := operands[0], operands[1]

	if srcReg, disp, ok := tryIndexOperand(src); ok {
		v, err := indexedByte(s, srcReg, disp)
		if err != nil {
			return err
		}
		return set8(s, dst, v)
	}
	if dstReg, disp, ok := tryIndexOperand(dst); ok {
		v, err := get8(s, src)
		if err != nil {
			return err
		}
		return setIndexedByte(s, dstReg, disp, v)
	}

	if is16Reg(dst) {
		if n, err := parseImm(src); err == nil {
			return set16(s, dst, uint16(n))
		}
		v, err := get16(s, src)
		if err != nil {
			return err
		}
		return set16(s, dst, v)
	}

	if n, err := parseImm(src); err == nil {
		return set8(s, dst, uint8(n))
	}
	v, err := get8(s, src)
	if err != nil {
		return err
	}
	return set8(s, dst, v)
}

func tryIndexOperand(s string) (reg string, disp int, ok bool) {
	reg, disp, err := indexOperand(s)
	return reg, disp, err == nil
}

func indexedByte(s *State, reg string, disp int) (uint8, error) {
	base, err := get16(s, reg)
	if err != nil {
		return 0, err
	}
	return s.Mem[uint16(int(base)+disp)], nil
}

func setIndexedByte(s *State, reg string, disp int, v uint8) error {
	base, err := get16(s, reg)
	if err != nil {
		return err
	}
	s.Mem[uint16(int(base)+disp)] = v
	return nil
}

func is16Reg(name string) bool {
	switch name {
	case "BC", "DE", "HL", "IX", "IY", "SP":
		return true
	}
	return false
}

func get16(s *State, name string) (uint16, error) {
	switch name {
	case "BC":
		return s.bc(), nil
	case "DE":
		return s.de(), nil
	case "HL":
		return s.hl(), nil
	case "IX":
		return s.IX, nil
	case "IY":
		return s.IY, nil
	case "SP":
		return s.SP, nil
	}
	if n, err := parseImm(name); err == nil {
		return uint16(n), nil
	}
	return 0, fmt.Errorf("not a 16-bit register: %q", name)
}

func set16(s *State, name string, v uint16) error {
	switch name {
	case "BC":
		s.setBC(v)
	case "DE":
		s.setDE(v)
	case "HL":
		s.setHL(v)
	case "IX":
		s.IX = v
	case "IY":
		s.IY = v
	case "SP":
		s.SP = v
	default:
		return fmt.Errorf("not a 16-bit register: %q", name)
	}
	return nil
}

func get8(s *State, name string) (uint8, error) {
	switch name {
	case "A":
		return s.A, nil
	case "B":
		return s.B, nil
	case "C":
		return s.C, nil
	case "D":
		return s.D, nil
	case "E":
		return s.E, nil
	case "H":
		return s.H, nil
	case "L":
		return s.L, nil
	}
	if n, err := parseImm(name); err == nil {
		return uint8(n), nil
	}
	return 0, fmt.Errorf("not an 8-bit register: %q", name)
}

func set8(s *State, name string, v uint8) error {
	switch name {
	case "A":
		s.A = v
	case "B":
		s.B = v
	case "C":
		s.C = v
	case "D":
		s.D = v
	case "E":
		s.E = v
	case "H":
		s.H = v
	case "L":
		s.L = v
	default:
		return fmt.Errorf("not an 8-bit register: %q", name)
	}
	return nil
}
