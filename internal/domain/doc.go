// Package domain models daily weather observations and the news text built
// from them.
//
// # Records
//
// A [DailyRecord] holds one calendar day of observations: mean, minimum and
// maximum temperature in °C, accumulated precipitation in mm and sunshine in
// minutes. Dates are normalized to midnight UTC by [NormalizeDate]; a
// [Dataset] holds at most one record per date.
//
// # Aggregation
//
// [Summarize] splits the records on or before a target date into two disjoint
// subsets:
//
//	current month: same (year, month) as the target, date <= target
//	history:       strictly before the target's month
//
// and aggregates each. An aggregate over zero records is a [Stat] with Valid
// false. That is not the same as zero: 0 mm of rain in a month with data reads
// "no precipitation", while a month without data says nothing about rain.
//
// # Narration
//
// [Narrator] turns a [Summary] into a paragraph using a [Phrasebook]. Clauses
// are included only for present statistics:
//
//	opening + temperatures    always (temperatures only when present)
//	precipitation             0 mm | < 10 mm scarce | >= 10 mm collected
//	sunshine                  total > 0 minutes, shown as hours and minutes
//	comparisons               |mean - historical mean| > 0.5 °C;
//	                          rain >= 10 mm and > 3x historical daily mean
//	highlights                hottest and coldest day of the month
//
// The opening phrase is picked from a small set by a [Chooser], which tests
// replace with [FixedChooser].
package domain
