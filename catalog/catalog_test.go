package catalog

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMatrix = `tipo,fire,water,grass
fire,0.5,0.5,2
water,2,0.5,0.5
grass,0.5,2,0.5
`

func TestDefaultCatalogs(t *testing.T) {
	items, err := DefaultItems()
	require.NoError(t, err)
	assert.Equal(t, 14, items.Len())
	assert.Equal(t, "Geladeira Dako", items.At(0).Name)
	assert.InDelta(t, 0.751, items.Weights()[0], 1e-12)

	matrix, err := DefaultTypeMatrix()
	require.NoError(t, err)
	assert.Len(t, matrix.Types(), 18)
	v, ok := matrix.Multiplier("water", "fire")
	require.True(t, ok)
	assert.Equal(t, 2.0, v)

	entities, err := DefaultEntities()
	require.NoError(t, err)
	assert.Greater(t, entities.Len(), 6)

	charmander, ok := entities.ByName("charmander")
	require.True(t, ok)
	_, hasSecond := charmander.Type2.Get()
	assert.False(t, hasSecond, "empty type2 cell must normalize to no second type")
}

func TestLoadTypeMatrixCSV(t *testing.T) {
	m, err := LoadTypeMatrixCSV(strings.NewReader(testMatrix))
	require.NoError(t, err)

	v, ok := m.Multiplier("fire", "grass")
	require.True(t, ok)
	assert.Equal(t, 2.0, v)

	v, ok = m.Multiplier("grass", "fire")
	require.True(t, ok)
	assert.Equal(t, 0.5, v)

	_, ok = m.Multiplier("fire", "rock")
	assert.False(t, ok)
}

func TestLoadTypeMatrixCSV_Rejects(t *testing.T) {
	cases := map[string]string{
		"zero multiplier": "tipo,a,b\na,1,0\nb,1,1\n",
		"missing row":     "tipo,a,b\na,1,1\n",
		"unknown row":     "tipo,a,b\na,1,1\nc,1,1\n",
		"short row":       "tipo,a,b\na,1\nb,1,1\n",
		"not a number":    "tipo,a\na,x\n",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadTypeMatrixCSV(strings.NewReader(src))
			assert.Error(t, err)
		})
	}
}

func TestLoadTypeMatrixCSV_FirstColumn(t *testing.T) {
	m, err := LoadTypeMatrixCSV(strings.NewReader("Type,a\na,2\n"))
	require.NoError(t, err)
	v, ok := m.Multiplier("a", "a")
	assert.True(t, ok)
	assert.Equal(t, 2.0, v)

	_, err = LoadTypeMatrixCSV(strings.NewReader("attacker,a\na,1\n"))
	assert.ErrorIs(t, err, ErrMalformedRow)
}

func TestLoadEntitiesCSV_Normalizes(t *testing.T) {
	m, err := LoadTypeMatrixCSV(strings.NewReader(testMatrix))
	require.NoError(t, err)

	src := `id,name,type1,type2,hp,attack,defense,speed,capture_rate
1,Ember, Fire ,NULL,40,50,40,60,45
2,Reed,grass,water,50,40,60,30,30 (Meteorite)255 (Core)
3,Puddle,water,,45,45,45,45,
`
	c, err := LoadEntitiesCSV(strings.NewReader(src), m)
	require.NoError(t, err)
	require.Equal(t, 3, c.Len())

	ember := c.At(0)
	assert.Equal(t, Type("fire"), ember.Type1)
	assert.Equal(t, NoSecondType, ember.Type2)

	reed := c.At(1)
	t2, ok := reed.Type2.Get()
	require.True(t, ok)
	assert.Equal(t, Type("water"), t2)
	assert.Equal(t, 30.0, reed.CaptureRate)

	assert.Equal(t, NoSecondType, c.At(2).Type2)
	assert.Equal(t, "Reed(grass/water)", reed.String())
}

func TestLoadEntitiesCSV_Rejects(t *testing.T) {
	m, err := LoadTypeMatrixCSV(strings.NewReader(testMatrix))
	require.NoError(t, err)

	cases := map[string]string{
		"unknown type":   "name,type1,type2,hp,attack,defense,speed\nX,rock,,1,1,1,1\n",
		"zero defense":   "name,type1,type2,hp,attack,defense,speed\nX,fire,,1,1,0,1\n",
		"missing column": "name,type1,hp,attack,defense\nX,fire,1,1,1\n",
		"bad hp":         "name,type1,hp,attack,defense,speed\nX,fire,?,1,1,1\n",
		"no rows":        "name,type1,hp,attack,defense,speed\n",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadEntitiesCSV(strings.NewReader(src), m)
			assert.Error(t, err)
		})
	}
}

func TestLoadItemsCSV(t *testing.T) {
	items, err := LoadItemsCSV(strings.NewReader("name,weight,value\nA,1,10\nB,0.5,3\n"))
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0.5}, items.Weights())
	assert.Equal(t, []float64{10, 3}, items.Values())
	assert.Equal(t, "B", items.At(1).Name)

	_, err = LoadItemsCSV(strings.NewReader("name,weight,value\nA,0,10\n"))
	assert.ErrorIs(t, err, ErrMalformedRow)
}

func TestEntitiesSampleUniform(t *testing.T) {
	m, err := LoadTypeMatrixCSV(strings.NewReader(testMatrix))
	require.NoError(t, err)
	list := []Entity{
		{Name: "a", Type1: "fire", HP: 1, Attack: 1, Defense: 1, Speed: 1},
		{Name: "b", Type1: "water", HP: 1, Attack: 1, Defense: 1, Speed: 1},
		{Name: "c", Type1: "grass", Type2: Some("fire"), HP: 1, Attack: 1, Defense: 1, Speed: 1},
	}
	c, err := NewEntities(list, m)
	require.NoError(t, err)

	rng := rand.New(rand.NewPCG(7, 7))
	counts := map[string]int{}
	const draws = 30000
	for i := 0; i < draws; i++ {
		counts[c.Sample(rng).Name]++
	}
	for _, name := range []string{"a", "b", "c"} {
		assert.InDelta(t, draws/3, counts[name], draws*0.02, "entity %s", name)
	}
}
