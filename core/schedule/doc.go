package schedule

// Package schedule plans when an electric vehicle should draw power. Given
// the plug-in instant, a daily ready-by time and the length of charge
// needed, it fills the off-peak window first and spreads any remainder over
// peak time where the carbon-intensity forecast is lowest.
