package services

import "context"

// DashboardStats は管理画面トップの集計値です。
type DashboardStats struct {
	TotalMembers      int `json:"total_members"`
	PremiumMembers    int `json:"premium_members"`
	FreeMembers       int `json:"free_members"`
	TotalRestaurants  int `json:"total_restaurants"`
	TotalReservations int `json:"total_reservations"`
	MonthlySales      int `json:"monthly_sales"`
}

type DashboardService struct {
	users         *UserService
	subscriptions *SubscriptionService
	restaurants   *RestaurantService
	reservations  *ReservationService
	monthlyFee    int
}

func NewDashboardService(users *UserService, subscriptions *SubscriptionService, restaurants *RestaurantService,
	reservations *ReservationService, monthlyFee int) *DashboardService {
	return &DashboardService{users: users, subscriptions: subscriptions, restaurants: restaurants, reservations: reservations, monthlyFee: monthlyFee}
}

// Stats は会員数・店舗数・予約数と、有料会員数 × 月額から見積もった月間売上を返します。
func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	members, err := s.users.CountUsers(ctx)
	if err != nil {
		return nil, err
	}
	premium, err := s.subscriptions.CountPremium(ctx)
	if err != nil {
		return nil, err
	}
	restaurants, err := s.restaurants.Count(ctx)
	if err != nil {
		return nil, err
	}
	reservations, err := s.reservations.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &DashboardStats{
		TotalMembers:      members,
		PremiumMembers:    premium,
		FreeMembers:       members - premium,
		TotalRestaurants:  restaurants,
		TotalReservations: reservations,
		MonthlySales:      premium * s.monthlyFee,
	}, nil
}
