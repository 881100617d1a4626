package command

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Digital-Creators-Team/stakes-engine/game"
	"github.com/samber/lo"
)

const (
	unknownCommandText = "Unknown command. Type -help for available commands."
	statusText         = "Game Status: All systems operational."
	divider            = "---------------------------------------------------------"
)

func orNone(s string) string {
	if s == "" {
		return "None"
	}
	return s
}

// formatItems groups repeated names in first-seen order: "herb x3, bottle"
func formatItems(items []string) string {
	if len(items) == 0 {
		return "Empty"
	}
	counts := lo.CountValues(items)
	return strings.Join(lo.Map(lo.Uniq(items), func(name string, _ int) string {
		if n := counts[name]; n > 1 {
			return fmt.Sprintf("%s x%d", name, n)
		}
		return name
	}), ", ")
}

func formatCustomItems(items []game.CustomItem) string {
	if len(items) == 0 {
		return "None"
	}
	return strings.Join(lo.Map(items, func(item game.CustomItem, _ int) string {
		if !item.IsMinted() {
			return item.Name
		}
		return fmt.Sprintf("%s (%s, uses %d, cooldown %d)", item.Name, item.Effect, item.Uses, item.Cooldown)
	}), ", ")
}

func formatInfo(acc *game.Account, rules game.Rules) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**Player Info - %s**\n", acc.Username)
	b.WriteString(divider + "\n")
	fmt.Fprintf(&b, "Balance: %d Gcoins\n", acc.Balance)
	fmt.Fprintf(&b, "Bank: %d Gcoins\n", acc.Bank)
	fmt.Fprintf(&b, "Luck: %s\n", acc.Luck.String())
	fmt.Fprintf(&b, "Level: %d (wager streak %d/%d)\n", acc.Level, acc.WagerStreak, rules.StreakThreshold)
	fmt.Fprintf(&b, "Inventory: %s\n", formatItems(acc.Inventory))
	fmt.Fprintf(&b, "Custom Items: %s\n", formatCustomItems(acc.CustomItems))
	fmt.Fprintf(&b, "Jobs: Active: %s, Total Worked: %d\n", orNone(acc.ActiveJob), acc.Stats.JobsCompleted)
	fmt.Fprintf(&b, "Gambling: Last Bet: %d, Bets Won: %d\n", acc.LastWager, acc.Stats.BetsWon)
	fmt.Fprintf(&b, "Trades: %d", acc.Stats.Trades)
	return b.String()
}

func formatShop(items []game.CatalogItem) string {
	var b strings.Builder
	b.WriteString("Shop Items:")
	for _, item := range items {
		fmt.Fprintf(&b, "\n- %s (%s): %d Gcoins", item.Name, item.Category, item.Price)
	}
	b.WriteString("\nUse -buy <item> [amount] to purchase.")
	return b.String()
}

func formatRecipes(recipes game.RecipeBook) string {
	var b strings.Builder
	b.WriteString("Craftable Items:")
	for _, r := range recipes {
		parts := lo.Map(r.Ingredients, func(in game.Ingredient, _ int) string {
			return fmt.Sprintf("%d %s", in.Count, in.Item)
		})
		fmt.Fprintf(&b, "\n- %s: %s (%.0f%% success)", r.Result, strings.Join(parts, ", "), r.SuccessRate*100)
	}
	b.WriteString("\nUse -craft <item> to craft.")
	return b.String()
}

func formatJobs(rules game.Rules) string {
	names := lo.Keys(rules.Jobs)
	sort.Strings(names)
	titled := lo.Map(names, func(name string, _ int) string {
		return strings.ToUpper(name[:1]) + name[1:]
	})
	return fmt.Sprintf("Available jobs: %s. Use -work <job> to work.", strings.Join(titled, ", "))
}

func formatLeaderboard(category game.RankCategory, entries []game.RankEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Leaderboard (%s):", category)
	if len(entries) == 0 {
		b.WriteString("\nNo players yet.")
		return b.String()
	}
	for _, e := range entries {
		fmt.Fprintf(&b, "\n%d. %s - %d", e.Position, e.Username, e.Value)
	}
	return b.String()
}

const helpText = `Available Commands:
Economy:
- -info
- -balance (-bal)
- -deposit (-dep) <amount/all/half>
- -withdraw (-with) <amount/all/half>
- -pay <@user> <amount>
- -daily
- -beg

Jobs:
- -jobs
- -work <job>
- -explore

Gambling:
- -gamble <amount>
- -bet <amount/all/half>

Shop & Items:
- -shop
- -buy <item> [amount]
- -sell <item> [amount]
- -inventory (-inv)
- -customitem "<name>" effect:"<description>" cost:<amount>

Crafting:
- -craftables
- -craft <item>

Miscellaneous:
- -leaderboard [wealth/level]
- -status
- -help`
