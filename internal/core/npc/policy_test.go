package npc

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/pursuit/internal/core/bt"
	"github.com/zeusync/pursuit/internal/core/entity"
)

func newScenario(enemyAt, playerAt entity.Position, health int) (*Policy, *entity.Enemy, *entity.Player) {
	e := entity.NewEnemy(enemyAt, entity.DefaultMaxHealth)
	e.SetHealth(health)
	p := entity.NewPlayer(playerAt)
	return NewPolicy(e, p, DefaultParams(), rand.New(rand.NewSource(1))), e, p
}

func TestPolicyShape(t *testing.T) {
	pol, _, _ := newScenario(pos(0, 0), pos(0, 0), 100)
	root, ok := pol.Root().(interface{ Children() []bt.Node })
	require.True(t, ok, "root must expose its branches")
	assert.Equal(t, "Root", pol.Root().Name())

	children := root.Children()
	require.Len(t, children, 3)
	assert.Equal(t, BranchFlee, children[0].Name())
	assert.Equal(t, BranchChase, children[1].Name())
	assert.Equal(t, BranchWander, children[2].Name())
}

func TestPolicyFleesWhenHurtEvenInRange(t *testing.T) {
	pol, e, p := newScenario(pos(50, 50), pos(60, 50), 20)

	st, branch := pol.Tick()
	assert.Equal(t, bt.StatusRunning, st)
	assert.Equal(t, BranchFlee, branch)
	assert.Equal(t, pos(49, 50), e.Position())
	assert.Equal(t, pos(60, 50), p.Position())
}

func TestPolicyFleesWhenHurtOutOfRange(t *testing.T) {
	pol, e, _ := newScenario(pos(0, 0), pos(500, 500), 10)
	_, branch := pol.Tick()
	assert.Equal(t, BranchFlee, branch)
	assert.Equal(t, pos(-1, -1), e.Position())
}

func TestPolicyChasesInRange(t *testing.T) {
	pol, e, _ := newScenario(pos(0, 0), pos(30, 40), 100) // distance 50

	st, branch := pol.Tick()
	assert.Equal(t, bt.StatusRunning, st)
	assert.Equal(t, BranchChase, branch)
	assert.Equal(t, pos(1, 1), e.Position())
}

func TestPolicyChasesAtThresholdHealth(t *testing.T) {
	pol, _, _ := newScenario(pos(0, 0), pos(10, 0), 30)
	_, branch := pol.Tick()
	assert.Equal(t, BranchChase, branch, "health equal to the threshold is not low")
}

func TestPolicyChasesAtExactRadius(t *testing.T) {
	pol, e, _ := newScenario(pos(0, 0), pos(80, 0), 100)
	_, branch := pol.Tick()
	assert.Equal(t, BranchChase, branch)
	assert.Equal(t, pos(1, 0), e.Position())
}

func TestPolicyWandersOutOfRange(t *testing.T) {
	pol, e, _ := newScenario(pos(0, 0), pos(200, 0), 100)

	for i := 0; i < 50; i++ {
		before := e.Position()
		st, branch := pol.Tick()
		require.Equal(t, bt.StatusRunning, st)
		require.Equal(t, BranchWander, branch)
		assert.Contains(t, []int{-1, 0, 1}, e.Position().X-before.X)
		assert.Contains(t, []int{-1, 0, 1}, e.Position().Y-before.Y)
	}
}

func TestPolicyTraceShortCircuits(t *testing.T) {
	pol, _, _ := newScenario(pos(0, 0), pos(10, 10), 5)
	pol.Tick()
	trace := pol.Trace()
	require.Len(t, trace, 1, "flee handles the tick, chase and wander are skipped")
	assert.Equal(t, BranchFlee, trace[0].Node)

	pol, _, _ = newScenario(pos(0, 0), pos(300, 300), 100)
	pol.Tick()
	trace = pol.Trace()
	require.Len(t, trace, 3)
	assert.Equal(t, bt.StatusFailure, trace[0].Status)
	assert.Equal(t, bt.StatusFailure, trace[1].Status)
	assert.Equal(t, bt.StatusRunning, trace[2].Status)
}

func TestPolicyRootNeverFails(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 200; i++ {
		pol, _, _ := newScenario(
			pos(rng.Intn(400), rng.Intn(400)),
			pos(rng.Intn(400), rng.Intn(400)),
			rng.Intn(101),
		)
		st, branch := pol.Tick()
		require.NotEqual(t, bt.StatusFailure, st)
		require.NotEmpty(t, branch)
	}
}

func TestPolicySwitchesBranchesAsStateChanges(t *testing.T) {
	pol, e, p := newScenario(pos(0, 0), pos(300, 0), 100)

	_, branch := pol.Tick()
	assert.Equal(t, BranchWander, branch)

	p.SetPosition(e.Position().Translate(20, 0))
	_, branch = pol.Tick()
	assert.Equal(t, BranchChase, branch)

	e.Damage(75)
	_, branch = pol.Tick()
	assert.Equal(t, BranchFlee, branch)
}

func TestPolicyCustomParams(t *testing.T) {
	e := entity.NewEnemy(pos(0, 0), 100)
	p := entity.NewPlayer(pos(100, 0))
	pol := NewPolicy(e, p, Params{DetectionRadius: 150, LowHealth: 50}, rand.New(rand.NewSource(1)))
	assert.Equal(t, 150.0, pol.Params().DetectionRadius)

	_, branch := pol.Tick()
	assert.Equal(t, BranchChase, branch)

	e.SetHealth(49)
	_, branch = pol.Tick()
	assert.Equal(t, BranchFlee, branch)
}

func TestPolicyRootTickKeepsTraceToLastTick(t *testing.T) {
	pol, e, _ := newScenario(pos(0, 0), pos(5000, 5000), 100)

	root := pol.Root()
	for i := 0; i < 1000; i++ {
		assert.Equal(t, bt.StatusRunning, root.Tick())
	}
	require.Len(t, pol.Trace(), 3, "flee and chase fail, wander runs")
	assert.Equal(t, BranchWander, pol.Trace()[2].Node)

	e.SetHealth(10)
	assert.Equal(t, bt.StatusRunning, root.Tick())
	tr := pol.Trace()
	require.Len(t, tr, 1)
	assert.Equal(t, BranchFlee, tr[0].Node)
}
