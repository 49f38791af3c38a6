package ccard

// alpha is the 32-entry LogLog bias-correction constant table, indexed by
// precision k (1..31; index 0 is unused padding matching the C array's
// layout). Values are copied verbatim from the reference ccard library,
// where they were computed offline from the gamma-function expression:
//
//	((gamma(-(m.^(-1))) .* ((1-2.^(m.^(-1)))./log(2))).^(-m)).*m
//
// which is a_m on page 5 of "LogLog Counting of Large Cardinalities".
var alpha = [32]float64{
	0,
	0.44567926005415,
	1.2480639342271,
	2.8391255240079,
	6.0165231584811,
	12.369319965552,
	25.073991603109,
	50.482891762521,
	101.30047482549,
	202.93553337953,
	406.20559693552,
	812.74569741657,
	1625.8258887309,
	3251.9862249084,
	6504.3071471860,
	13008.949929672,
	26018.222470181,
	52036.684135280,
	104073.41696276,
	208139.24771523,
	416265.57100022,
	832478.53851627,
	1669443.2499579,
	3356902.8702907,
	6863377.8429508,
	11978069.823687,
	31333767.455026,
	52114301.457757,
	72080129.928986,
	68945006.880409,
	31538957.552704,
	3299942.4347441,
}

// bSwitch is the fixed empty-bucket-ratio threshold at which the Adaptive
// Counting estimator switches from the Linear Counting formula to the
// LogLog formula.
const bSwitch = 0.051
