package audio

// A Node is a unit in the audio graph. Nodes are created by a Context, start out
// unconnected and produce one mono signal which is summed into every node or
// param they are connected to.
type Node interface {
	// Connect routes the output of the node into dst.
	Connect(dst Node)
	// ConnectParam routes the output of the node into p, modulating its value.
	ConnectParam(p *Param)
	// Disconnect removes every outgoing connection. Disconnecting a node that is
	// not connected is a no-op.
	Disconnect()
	// Connected reports whether the node has any outgoing connection.
	Connected() bool

	graphNode() *node
}

// processor renders one quantum. in holds the sum of all inputs.
type processor interface {
	process(in, out []float64, frame int64)
}

type node struct {
	ctx    *Context
	proc   processor
	inputs []*node
	dests  []*node
	params []*Param

	in, out    []float64
	renderedAt int64
}

func (c *Context) newNode(p processor) *node {
	c.mu.Lock()
	c.stats.NodesCreated++
	c.mu.Unlock()
	return &node{
		ctx:        c,
		proc:       p,
		in:         make([]float64, renderQuantum),
		out:        make([]float64, renderQuantum),
		renderedAt: -1,
	}
}

func (n *node) graphNode() *node { return n }

func (n *node) Connect(dst Node) {
	d := dst.graphNode()
	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()
	for _, existing := range n.dests {
		if existing == d {
			return
		}
	}
	n.dests = append(n.dests, d)
	d.inputs = append(d.inputs, n)
}

func (n *node) ConnectParam(p *Param) {
	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()
	for _, existing := range n.params {
		if existing == p {
			return
		}
	}
	n.params = append(n.params, p)
	p.inputs = append(p.inputs, n)
}

func (n *node) Disconnect() {
	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()
	n.disconnect()
}

func (n *node) disconnect() {
	for _, d := range n.dests {
		d.inputs = removeNode(d.inputs, n)
	}
	for _, p := range n.params {
		p.inputs = removeNode(p.inputs, n)
	}
	n.dests = nil
	n.params = nil
}

func (n *node) Connected() bool {
	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()
	return len(n.dests) > 0 || len(n.params) > 0
}

// pull renders the node for the quantum starting at frame. The result is cached
// so that a node feeding several destinations is only rendered once.
func (n *node) pull(frame int64) []float64 {
	if n.renderedAt == frame {
		return n.out
	}
	for i := range n.in {
		n.in[i] = 0
	}
	for _, src := range n.inputs {
		for i, v := range src.pull(frame) {
			n.in[i] += v
		}
	}
	n.proc.process(n.in, n.out, frame)
	n.renderedAt = frame
	return n.out
}

func removeNode(nodes []*node, n *node) []*node {
	for i, x := range nodes {
		if x == n {
			return append(nodes[:i], nodes[i+1:]...)
		}
	}
	return nodes
}

// Gain scales its input by the Gain param.
type Gain struct {
	*node
	Gain *Param
}

// NewGain creates a gain node with an initial gain of 1.
func (c *Context) NewGain() *Gain {
	g := &Gain{}
	g.node = c.newNode(g)
	g.Gain = c.newParam(1)
	return g
}

func (g *Gain) process(in, out []float64, frame int64) {
	gain := g.Gain.fill(frame)
	for i := range out {
		out[i] = in[i] * gain[i]
	}
}
