package metric

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantity_EqualComparesAcrossCompatibleUnits(t *testing.T) {
	length, meter := newLengthProperty(t)
	footMultiplier, err := NewRational(3048, 10000)
	require.NoError(t, err)
	foot := NewAtomicUnit([]string{"foot"}, []string{"ft"}, footMultiplier, Zero)
	require.NoError(t, length.RegisterUnit(foot, nil))

	oneMeter := NewQuantity(One, meter)
	sameInFeet := NewQuantity(mustConvert(t, oneMeter, foot), foot)
	assert.True(t, oneMeter.Equal(sameInFeet))
}

func mustConvert(t *testing.T, q Quantity, dest *Unit) Rational {
	t.Helper()
	out, err := q.ConvertTo(dest)
	require.NoError(t, err)
	return out.Value
}

func TestQuantity_ApproximatelyEqualAcrossIncompatibleDimensionsIsFalse(t *testing.T) {
	_, meter := newLengthProperty(t)
	mass := NewFundamentalProperty([]string{"mass"})
	kilogram := NewAtomicUnit([]string{"kilogram"}, []string{"kg"}, One, Zero)
	require.NoError(t, mass.RegisterUnit(kilogram, nil))

	a := NewQuantity(One, meter)
	b := NewQuantity(One, kilogram)
	assert.False(t, a.ApproximatelyEqual(b))
}

func TestQuantity_EqualAcrossIncompatibleDimensionsPanics(t *testing.T) {
	_, meter := newLengthProperty(t)
	mass := NewFundamentalProperty([]string{"mass"})
	kilogram := NewAtomicUnit([]string{"kilogram"}, []string{"kg"}, One, Zero)
	require.NoError(t, mass.RegisterUnit(kilogram, nil))

	a := NewQuantity(One, meter)
	b := NewQuantity(One, kilogram)
	assert.Panics(t, func() { a.Equal(b) })
}

func TestQuantity_CompareOrdersAcrossCompatibleUnits(t *testing.T) {
	length, meter := newLengthProperty(t)
	footMultiplier, err := NewRational(3048, 10000)
	require.NoError(t, err)
	foot := NewAtomicUnit([]string{"foot"}, []string{"ft"}, footMultiplier, Zero)
	require.NoError(t, length.RegisterUnit(foot, nil))

	oneMeter := NewQuantity(One, meter)
	twoFeet := NewQuantity(NewRationalInt(2), foot)
	cmp, err := oneMeter.Compare(twoFeet)
	require.NoError(t, err)
	assert.Equal(t, 1, cmp) // 1 meter (~3.28 ft) is greater than 2 feet
}

func TestSumQuantities_EmptyListSumsToZeroAtDestination(t *testing.T) {
	_, meter := newLengthProperty(t)
	sum, err := SumQuantities(meter, nil)
	require.NoError(t, err)
	assert.True(t, sum.Value.IsZero())
	assert.Same(t, meter, sum.Unit)
}

func TestSumQuantities_SingleQuantityJustConverts(t *testing.T) {
	length, meter := newLengthProperty(t)
	footMultiplier, err := NewRational(3048, 10000)
	require.NoError(t, err)
	foot := NewAtomicUnit([]string{"foot"}, []string{"ft"}, footMultiplier, Zero)
	require.NoError(t, length.RegisterUnit(foot, nil))

	sum, err := SumQuantities(foot, []Quantity{NewQuantity(One, meter)})
	require.NoError(t, err)
	want, err := NewRational(10000, 3048)
	require.NoError(t, err)
	assert.True(t, sum.Value.Equal(want))
}

func TestSumQuantities_RejectsOffsetUnitsWhenSummingTwoOrMore(t *testing.T) {
	temperature := NewFundamentalProperty([]string{"temperature"})
	celsius := NewAtomicUnit([]string{"celsius"}, []string{"C"}, One, Zero)
	require.NoError(t, temperature.RegisterUnit(celsius, nil))
	fahrenheit := NewAtomicUnit([]string{"fahrenheit"}, []string{"F"}, mustR(t, 5, 9), mustR(t, -160, 9))
	require.NoError(t, temperature.RegisterUnit(fahrenheit, nil))

	_, err := SumQuantities(celsius, []Quantity{
		NewQuantity(NewRationalInt(0), celsius),
		NewQuantity(NewRationalInt(32), fahrenheit),
	})
	require.Error(t, err)
	var nonAdd *NonAdditiveQuantitiesError
	assert.ErrorAs(t, err, &nonAdd)
}

func mustR(t *testing.T, num, den int64) Rational {
	t.Helper()
	v, err := NewRational(num, den)
	require.NoError(t, err)
	return v
}

func TestConversionQuery_StringForms(t *testing.T) {
	u := mustParseUniverse(t, testUniverseDef)
	q := mustQuery(t, u, "2 meters in inches")
	assert.Equal(t, "2 meters", q.Expression())
	assert.Contains(t, q.ResultString(), "2 meters = ")
	assert.Contains(t, q.QueryString(), "2 meters in inches")
}

func TestConversionQuery_ExpressionSingularizesUnitMagnitudeOfOne(t *testing.T) {
	u := mustParseUniverse(t, testUniverseDef)
	q := mustQuery(t, u, "1 meter in inches")
	assert.Equal(t, "1 meter", q.Expression())
}

func TestConversionQuery_MultiQuantityExpressionParenthesizesEachTerm(t *testing.T) {
	u := mustParseUniverse(t, testUniverseDef)
	q := mustQuery(t, u, "10 meters + 3 yards in feet")
	assert.Equal(t, "(10 meters) + (3 yards)", q.Expression())
}
