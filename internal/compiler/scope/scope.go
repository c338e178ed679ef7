package scope

// Display maps each open lexical level to the BTAB index of the block
// active at that level. It always holds exactly Level()+1 entries.
type Display struct {
	blocks []int
}

// NewDisplay opens level 0 on the given block.
func NewDisplay(global int) *Display {
	return &Display{blocks: []int{global}}
}

// Level is the innermost open level.
func (d *Display) Level() int {
	return len(d.blocks) - 1
}

// Enter opens a new innermost level on block and returns that level.
func (d *Display) Enter(block int) int {
	d.blocks = append(d.blocks, block)
	return d.Level()
}

// Exit closes the innermost level. Level 0 stays open.
func (d *Display) Exit() bool {
	if len(d.blocks) == 1 {
		return false
	}
	d.blocks = d.blocks[:len(d.blocks)-1]
	return true
}

// Block returns the block index open at level, or -1.
func (d *Display) Block(level int) int {
	if level < 0 || level >= len(d.blocks) {
		return -1
	}
	return d.blocks[level]
}

// Current is the block index at the innermost level.
func (d *Display) Current() int {
	return d.blocks[len(d.blocks)-1]
}

// Each visits the open levels innermost first, stopping when fn returns false.
func (d *Display) Each(fn func(level, block int) bool) {
	for lvl := len(d.blocks) - 1; lvl >= 0; lvl-- {
		if !fn(lvl, d.blocks[lvl]) {
			return
		}
	}
}
