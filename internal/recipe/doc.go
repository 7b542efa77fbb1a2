// Package recipe defines the Recipe model and the repository that loads
// recipes from TheCocktailDB.
//
// The repository never fails outright. When the API cannot be reached the
// caller gets the bundled list (embedded from fallback.json) with
// Result.Source set to SourceFallback and Result.Err holding the cause, so
// the UI can say it is offline without losing the screen.
//
// User settings flow in as Filters: NonAlcoholicOnly drops drinks marked
// "Alcoholic", and Unit rewrites leading ingredient volumes between ml and oz
// (1 oz = 30 ml, ounces rounded to the nearest quarter). Network results are
// optionally machine-translated; recipe names are never translated because
// favorites and notes are keyed by them.
package recipe
