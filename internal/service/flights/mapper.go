package flights

import (
	"strings"

	"github.com/Domenick1991/aviasales/internal/domain"
	"github.com/Domenick1991/aviasales/internal/external"
)

func fromFake(f external.FakeFlight) domain.Flight {
	return domain.Flight{
		ID:                 f.ID,
		ExternalID:         f.ExternalID,
		Source:             domain.SourceFake,
		AirlineID:          f.AirlineID,
		DepartureAirportID: f.DepartureAirportID,
		DepartureTime:      f.DepartureTime,
		ArrivalAirportID:   f.ArrivalAirportID,
		ArrivalTime:        f.ArrivalTime,
		Details: domain.FlightDetails{
			PassengerCount:   f.PassengerCount,
			IsAvailable:      f.IsAvailable,
			HasFreeBaggage:   f.HasFreeBaggage,
			TransactionCount: f.Transactions,
			HasTransaction:   f.Transactions > 0,
		},
		Prices: []domain.Price{{AmountCents: f.PriceCents, Type: domain.PriceTypeMain}},
	}
}

// fromTimeTable maps OTA flight details to flights. Entries with unparsable times are dropped.
// The external id joins the airline code and flight number of each leg with "-", or falls
// back to route plus departure minute when no leg carries one.
func fromTimeTable(doc *external.AirDetailsRS) []domain.Flight {
	if doc == nil {
		return []domain.Flight{}
	}
	flights := make([]domain.Flight, 0, len(doc.FlightDetails))
	for _, d := range doc.FlightDetails {
		departure, err := external.ParseOTATime(d.DepartureDateTime)
		if err != nil {
			continue
		}
		arrival, err := external.ParseOTATime(d.ArrivalDateTime)
		if err != nil {
			continue
		}

		transactions := max(d.LegCount()-1, 0)
		var airline string
		numbers := make([]string, 0, len(d.Legs))
		for _, leg := range d.Legs {
			if number := leg.MarketingAirline.Code + leg.FlightNumber; number != "" {
				numbers = append(numbers, number)
			}
		}
		if len(d.Legs) > 0 {
			airline = d.Legs[0].MarketingAirline.Code
		}

		externalID := strings.Join(numbers, "-")
		if externalID == "" {
			externalID = d.DepartureCode + d.ArrivalCode + departure.Format("200601021504")
		}

		flights = append(flights, domain.Flight{
			ExternalID:    externalID,
			Source:        domain.SourceTimeTable,
			AirlineCode:   airline,
			DepartureCode: d.DepartureCode,
			DepartureTime: departure,
			ArrivalCode:   d.ArrivalCode,
			ArrivalTime:   arrival,
			Details: domain.FlightDetails{
				IsAvailable:      true,
				TransactionCount: transactions,
				HasTransaction:   transactions > 0,
			},
			Prices: []domain.Price{},
		})
	}
	return flights
}
