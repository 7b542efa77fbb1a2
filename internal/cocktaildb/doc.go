// Package cocktaildb provides an HTTP client for TheCocktailDB JSON API.
//
// # Overview
//
// The client wraps the four read-only endpoints shaker needs:
//
//   - GET search.php?s=<name>: drinks matching a name
//   - GET random.php: one random drink
//   - GET filter.php?i=<ingredient>: drinks containing an ingredient
//   - GET lookup.php?i=<id>: full record for a drink id
//
// Endpoint names resolve relative to the configured base URL, which defaults
// to https://www.thecocktaildb.com/api/json/v1/1/.
//
// # Response Shape
//
// Every endpoint answers with {"drinks": [...]}. Misses come back as
// "drinks": null or, for some endpoints, "drinks": "no data found"; both decode
// to an empty slice. Ingredients are spread over strIngredient1..15 and
// strMeasure1..15; Drink collects the non-empty slots into Parts, and
// Drink.Ingredients renders them as "measure ingredient" lines.
//
// # Request Handling
//
// All requests:
//   - Use context for cancellation
//   - Set Accept: application/json and User-Agent: shaker/0.1
//   - Time out after the configured request timeout
//   - Return wrapped errors ("execute request: ...", "api search.php returned
//     status 500", "decode response: ...")
//
// The client does no caching and no retries; the recipe repository decides
// how to degrade.
package cocktaildb
