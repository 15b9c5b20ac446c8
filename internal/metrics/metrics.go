// Package metrics aggregates raw transaction totals into financial metrics,
// category breakdowns, weekday patterns and goal projections.
//
// Unlike the series package it works on direction totals only: transfers and
// refunds are not classified here.
package metrics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/cashflow/internal/transaction"
)

// daysPerMonth is the month length used to extrapolate observed totals.
const daysPerMonth = 30

// FinancialMetrics holds totals in minor units. Monthly figures and the
// average daily spending are extrapolations and keep their fraction.
type FinancialMetrics struct {
	TotalIncome          int64
	TotalExpenses        int64
	NetSavings           int64
	SavingsRate          float64 // percent of income, 0 without income
	AverageDailySpending decimal.Decimal
	MonthlyIncome        decimal.Decimal
	MonthlyExpenses      decimal.Decimal
	Days                 int64 // observed span, at least 1
}

// MonthlyNet is the extrapolated monthly savings.
func (m FinancialMetrics) MonthlyNet() decimal.Decimal {
	return m.MonthlyIncome.Sub(m.MonthlyExpenses)
}

func Calculate(txns []transaction.Transaction) FinancialMetrics {
	var income, expenses int64

	for _, tx := range txns {
		switch tx.Direction {
		case transaction.DirectionInflow:
			income += tx.Amount
		case transaction.DirectionOutflow:
			expenses += tx.Amount
		}
	}

	m := FinancialMetrics{
		TotalIncome:   income,
		TotalExpenses: expenses,
		NetSavings:    income - expenses,
		Days:          spanDays(txns),
	}

	if income > 0 {
		m.SavingsRate = float64(m.NetSavings) / float64(income) * 100
	}

	days := decimal.NewFromInt(m.Days)
	month := decimal.NewFromInt(daysPerMonth)

	m.AverageDailySpending = decimal.NewFromInt(expenses).Div(days)
	m.MonthlyIncome = decimal.NewFromInt(income).Div(days).Mul(month)
	m.MonthlyExpenses = decimal.NewFromInt(expenses).Div(days).Mul(month)

	return m
}

// spanDays counts whole days between the earliest and latest dates, with a
// floor of one. Undated rows are left out of the span.
func spanDays(txns []transaction.Transaction) int64 {
	var first, last time.Time

	for _, tx := range txns {
		if tx.Date.IsZero() {
			continue
		}

		if first.IsZero() || tx.Date.Before(first) {
			first = tx.Date
		}

		if tx.Date.After(last) {
			last = tx.Date
		}
	}

	return max(1, int64(last.Sub(first)/(24*time.Hour)))
}
