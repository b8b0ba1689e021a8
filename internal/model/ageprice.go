package model

// AgePrice is one band of the age-tiered pricing table: spectators whose
// age falls inside [AgeMin, AgeMax] pay the showing's base price times
// Factor.  Bands are authored non-overlapping and are read in ascending
// AgeMin order; the band named "Adult" (or "Adulte" in the seeded data)
// doubles as the fallback when no band matches.  Reference data owned by
// the back-office; read-only to the booking core.
type AgePrice struct {
	ID     uint64  // ageprice.id
	Name   string  // ageprice.name
	AgeMin uint32  // ageprice.agemin
	AgeMax uint32  // ageprice.agemax
	Factor float64 // ageprice.factor
}
