package metric

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLengthProperty(t *testing.T) (*Property, *Unit) {
	t.Helper()
	length := NewFundamentalProperty([]string{"length", "distance"})
	meter := NewAtomicUnit([]string{"meter"}, []string{"m"}, One, Zero)
	require.NoError(t, length.RegisterUnit(meter, nil))
	return length, meter
}

func Test_Property_FirstRegisteredUnitBecomesBaseUnit(t *testing.T) {
	length, meter := newLengthProperty(t)
	assert.Same(t, meter, length.BaseUnit())
	assert.True(t, meter.IsBase())
}

func Test_Property_RegisterUnit_RejectsDuplicateNames(t *testing.T) {
	length, _ := newLengthProperty(t)
	dup := NewAtomicUnit([]string{"meter"}, nil, One, Zero)
	err := length.RegisterUnit(dup, nil)
	require.Error(t, err)
	var dupErr *DuplicateUnitNameError
	assert.ErrorAs(t, err, &dupErr)
}

func Test_Property_RegisterUnit_RejectsAfterFreeze(t *testing.T) {
	length, _ := newLengthProperty(t)
	require.NoError(t, length.Freeze())
	extra := NewAtomicUnit([]string{"foot"}, []string{"ft"}, One, Zero)
	err := length.RegisterUnit(extra, nil)
	assert.Error(t, err)
}

func Test_Property_Freeze_RejectsFundamentalPropertyWithoutUnits(t *testing.T) {
	empty := NewFundamentalProperty([]string{"mystery"})
	err := empty.Freeze()
	require.Error(t, err)
	var invalidErr *InvalidEmptyPropertyError
	assert.ErrorAs(t, err, &invalidErr)
}

func Test_Property_IsFundamental(t *testing.T) {
	length, _ := newLengthProperty(t)
	assert.True(t, length.IsFundamental())

	speed := NewDerivedProperty([]string{"speed"}, ProductFactorization(
		[]*Property{length}, []int{1}))
	assert.False(t, speed.IsFundamental())
}

func Test_Unit_PrefixedUnit_NamesAndMultiplierCompose(t *testing.T) {
	length, meter := newLengthProperty(t)
	kilo, _ := PrefixByLongName("kilo")
	km, err := NewPrefixedUnit(kilo, meter)
	require.NoError(t, err)
	require.NoError(t, length.RegisterUnit(km, nil))

	assert.Equal(t, []string{"kilometer"}, km.LongNames())
	assert.Equal(t, []string{"km"}, km.ShortNames())
	assert.True(t, km.Multiplier().Equal(NewRationalInt(1000)))
	assert.True(t, km.Offset().IsZero())
}

func Test_Unit_PrefixedUnit_RejectsStackingOnAnAlreadyPrefixedUnit(t *testing.T) {
	_, meter := newLengthProperty(t)
	kilo, _ := PrefixByLongName("kilo")
	km, err := NewPrefixedUnit(kilo, meter)
	require.NoError(t, err)

	mega, _ := PrefixByLongName("mega")
	_, err = NewPrefixedUnit(mega, km)
	assert.Error(t, err)
}

func Test_Unit_DerivedUnit_SingleFactorSquaredIsAllowed(t *testing.T) {
	_, meter := newLengthProperty(t)
	areaBase, err := NewDerivedUnit(SingleFactor(meter, 2))
	require.NoError(t, err)
	assert.True(t, areaBase.IsDerived())
	assert.True(t, areaBase.Multiplier().Equal(One))
}

func Test_Unit_DerivedUnit_RejectsTrivialSingleFactorToTheFirstPower(t *testing.T) {
	_, meter := newLengthProperty(t)
	_, err := NewDerivedUnit(SingleFactor(meter, 1))
	assert.Error(t, err)
}

func Test_Unit_DerivedUnit_RejectsEmptyFactors(t *testing.T) {
	_, err := NewDerivedUnit(EmptyFactorization[*Unit]())
	assert.Error(t, err)
}

func Test_Unit_DerivedUnit_RejectsFactorWithNonzeroOffset(t *testing.T) {
	_, meter := newLengthProperty(t)
	tempered := NewAtomicUnit([]string{"weird"}, nil, One, NewRationalInt(1))
	_, err := NewDerivedUnit(ProductFactorization([]*Unit{meter, tempered}, []int{1, 1}))
	assert.Error(t, err)
}

func Test_Unit_ConvertTo_SimpleMultiplierScaling(t *testing.T) {
	length, meter := newLengthProperty(t)
	footMultiplier, err := NewRational(3048, 10000)
	require.NoError(t, err)
	foot := NewAtomicUnit([]string{"foot"}, []string{"ft"}, footMultiplier, Zero)
	require.NoError(t, length.RegisterUnit(foot, nil))

	got, err := meter.ConvertTo(One, foot)
	require.NoError(t, err)
	want, err := NewRational(10000, 3048)
	require.NoError(t, err)
	assert.True(t, got.Equal(want))

	back, err := foot.ConvertTo(got, meter)
	require.NoError(t, err)
	assert.True(t, back.Equal(One))
}

func Test_Unit_ConvertTo_OffsetUnitsLikeTemperature(t *testing.T) {
	temperature := NewFundamentalProperty([]string{"temperature"})
	celsius := NewAtomicUnit([]string{"celsius"}, []string{"C"}, One, Zero)
	require.NoError(t, temperature.RegisterUnit(celsius, nil))

	fiveNinths, err := NewRational(5, 9)
	require.NoError(t, err)
	fahrenheitOffset, err := NewRational(-160, 9)
	require.NoError(t, err)
	fahrenheit := NewAtomicUnit([]string{"fahrenheit"}, []string{"F"}, fiveNinths, fahrenheitOffset)
	require.NoError(t, temperature.RegisterUnit(fahrenheit, nil))

	got, err := fahrenheit.ConvertTo(NewRationalInt(212), celsius)
	require.NoError(t, err)
	assert.True(t, got.Equal(NewRationalInt(100)))

	back, err := celsius.ConvertTo(NewRationalInt(100), fahrenheit)
	require.NoError(t, err)
	assert.True(t, back.Equal(NewRationalInt(212)))
}

func Test_Unit_ConvertTo_RejectsIncompatibleDimensions(t *testing.T) {
	length, meter := newLengthProperty(t)
	_ = length
	mass := NewFundamentalProperty([]string{"mass"})
	kilogram := NewAtomicUnit([]string{"kilogram"}, []string{"kg"}, One, Zero)
	require.NoError(t, mass.RegisterUnit(kilogram, nil))

	_, err := meter.ConvertTo(One, kilogram)
	require.Error(t, err)
	var incompatible *IncompatibleUnitsError
	assert.ErrorAs(t, err, &incompatible)
}

func Test_Unit_AllRegistrationNames_IncludesPluralAndDegreeStripping(t *testing.T) {
	u := NewAtomicUnit([]string{"degree celsius"}, []string{"C"}, One, Zero)
	names := u.allRegistrationNames()
	assert.Contains(t, names, "degree celsius")
	assert.Contains(t, names, "degrees celsius")
	assert.Contains(t, names, "celsius")
	assert.Contains(t, names, "C")
}
