package console

import (
	"context"
	"fmt"
	"strconv"

	"github.com/kobe-cb/retail/internal/modules/admin"
	"github.com/kobe-cb/retail/internal/modules/inventory"
	"github.com/kobe-cb/retail/internal/modules/order"
	"github.com/kobe-cb/retail/internal/modules/user"
)

// ---- sign up / log in ----

func (c *Console) signUp(ctx context.Context) error {
	name, err := c.prompt("\tEnter name: ")
	if err != nil {
		return err
	}
	password, err := c.prompt("\tEnter password: ")
	if err != nil {
		return err
	}
	lat, err := c.promptFloat("\tEnter latitude: ")
	if err != nil {
		return err
	}
	long, err := c.promptFloat("\tEnter longitude: ")
	if err != nil {
		return err
	}

	c.println("Please choose the type of user this will be. \n1. Customer\n2. Manager (Requires code)\n3. Admin (Requires code)")
	choice, err := c.readChoice()
	if err != nil {
		return err
	}
	req := user.SignUpRequest{Name: name, Password: password, Latitude: lat, Longitude: long}
	switch choice {
	case 1:
		req.Role = user.RoleCustomer
	case 2:
		req.Role = user.RoleManager
		c.println("You have chosen manager, please enter the special code to create new managers.")
		if req.Code, err = c.readLine(); err != nil {
			return err
		}
	case 3:
		req.Role = user.RoleAdmin
		c.println("You have chosen admin, please enter the special code to create new admins.")
		if req.Code, err = c.readLine(); err != nil {
			return err
		}
	default:
		c.println("Unrecognized Type, returning to main menu.")
		return nil
	}

	u, err := c.svc.Users.SignUp(ctx, req)
	if err != nil {
		return err
	}
	c.printf("User successfully created! Your user id is %d.\n", u.ID)
	return nil
}

func (c *Console) logIn(ctx context.Context) error {
	name, err := c.prompt("\tEnter name: ")
	if err != nil {
		return err
	}
	password, err := c.prompt("\tEnter password: ")
	if err != nil {
		return err
	}
	sess, err := c.svc.Auth.Login(ctx, name, password)
	if err != nil {
		return err
	}
	c.session = sess
	return nil
}

// ---- customer ----

func (c *Console) viewStores(ctx context.Context) error {
	stores, err := c.svc.Inventory.StoresWithinRange(ctx, c.session)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(stores))
	for _, s := range stores {
		rows = append(rows, []string{strconv.Itoa(s.ID), s.Name, fmt.Sprintf("%.2f", s.Distance)})
	}
	if printTable(c.out, []string{"storeid", "name", "distance"}, rows) == 0 {
		c.println("There are no stores within range.")
	}
	return nil
}

func (c *Console) viewProducts(ctx context.Context) error {
	storeID, err := c.promptInt("Please enter the store's ID: ")
	if err != nil {
		return err
	}
	products, err := c.svc.Inventory.ListProducts(ctx, storeID)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(products))
	for _, p := range products {
		rows = append(rows, []string{p.Name, strconv.Itoa(p.Units), p.PricePerUnit.StringFixed(2)})
	}
	printTable(c.out, []string{"productname", "numberofunits", "priceperunit"}, rows)
	return nil
}

func (c *Console) placeOrder(ctx context.Context) error {
	storeID, err := c.promptInt("Please enter storeID: ")
	if err != nil {
		return err
	}
	productName, err := c.prompt("Please enter productName: ")
	if err != nil {
		return err
	}
	units, err := c.promptInt("Please enter numberofUnits: ")
	if err != nil {
		return err
	}

	receipt, err := c.svc.Orders.PlaceOrder(ctx, c.session, order.PlaceOrderRequest{
		StoreID:     storeID,
		ProductName: productName,
		Units:       units,
	})
	if err != nil {
		return err
	}
	c.printf("You have successfully placed an order at %s(%d) for %d units of %s each costing $%s, totaling $%s. Thank you!\n",
		receipt.StoreName, storeID, units, productName, receipt.UnitPrice.String(), receipt.Total.String())
	return nil
}

func (c *Console) viewRecentOrders(ctx context.Context) error {
	orders, err := c.svc.Orders.RecentOrders(ctx, c.session)
	if err != nil {
		return err
	}
	if len(orders) == 0 {
		c.println("You don't have any recent orders.")
		return nil
	}
	rows := make([][]string, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, []string{
			strconv.Itoa(o.Number), o.StoreName, o.ProductName,
			strconv.Itoa(o.Units), o.OrderTime.Format("2006-01-02 15:04:05"),
		})
	}
	printTable(c.out, []string{"ordernumber", "store", "productname", "unitsordered", "ordertime"}, rows)
	return nil
}

// ---- manager ----

func (c *Console) updateProduct(ctx context.Context) error {
	storeID, err := c.promptInt("Please enter the store's ID: ")
	if err != nil {
		return err
	}
	productName, err := c.prompt("Please enter the product's name: ")
	if err != nil {
		return err
	}
	p, err := c.svc.Inventory.ManagedProduct(ctx, c.session, storeID, productName)
	if err != nil {
		return err
	}

	c.printf("\n%s currently has %d priced at %s each. Would you like to update this?\n", p.Name, p.Units, p.PricePerUnit.String())
	c.println(" 1. Update number of units.\n 2. Update price per unit.\n 3. Update both.\n 4. Return to menu.")
	choice, err := c.readChoice()
	if err != nil {
		return err
	}

	switch choice {
	case 1, 2, 3:
	case 4:
		return nil
	default:
		c.println("unrecognized option, returning to menu ...")
		return nil
	}

	var patch inventory.ProductPatch
	if choice == 1 || choice == 3 {
		units, err := c.promptInt("Please enter the new number of units.\n")
		if err != nil {
			return err
		}
		patch.Units = &units
	}
	if choice == 2 || choice == 3 {
		price, err := c.promptDecimal("Please enter the new price per unit.\n")
		if err != nil {
			return err
		}
		patch.PricePerUnit = &price
	}

	if _, err := c.svc.Inventory.UpdateProduct(ctx, c.session, inventory.UpdateProductRequest{
		StoreID:     storeID,
		ProductName: productName,
		Patch:       patch,
	}); err != nil {
		return err
	}
	c.println("You have successfully updated the product.")
	return nil
}

func (c *Console) viewRecentUpdates(ctx context.Context) error {
	updates, err := c.svc.Inventory.RecentUpdates(ctx, c.session)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(updates))
	for _, u := range updates {
		rows = append(rows, []string{
			strconv.Itoa(u.Number), strconv.Itoa(u.StoreID), u.ProductName,
			u.UpdatedOn.Format("2006-01-02 15:04:05"),
		})
	}
	printTable(c.out, []string{"updatenumber", "storeid", "productname", "updatedon"}, rows)
	return nil
}

func (c *Console) viewPopularProducts(ctx context.Context) error {
	products, err := c.svc.Inventory.PopularProducts(ctx, c.session)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(products))
	for _, p := range products {
		rows = append(rows, []string{
			strconv.Itoa(p.StoreID), p.ProductName, strconv.Itoa(p.OrderCount), strconv.Itoa(p.UnitsOrdered),
		})
	}
	printTable(c.out, []string{"storeid", "productname", "orders", "units"}, rows)
	return nil
}

func (c *Console) viewPopularCustomers(ctx context.Context) error {
	customers, err := c.svc.Inventory.PopularCustomers(ctx, c.session)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(customers))
	for _, cu := range customers {
		rows = append(rows, []string{strconv.Itoa(cu.CustomerID), cu.Name, strconv.Itoa(cu.OrderCount)})
	}
	printTable(c.out, []string{"customerid", "name", "orders"}, rows)
	return nil
}

func (c *Console) placeSupplyRequest(ctx context.Context) error {
	storeID, err := c.promptInt("Please enter the store's ID: ")
	if err != nil {
		return err
	}
	productName, err := c.prompt("Please enter the product's name: ")
	if err != nil {
		return err
	}
	p, err := c.svc.Inventory.ManagedProduct(ctx, c.session, storeID, productName)
	if err != nil {
		return err
	}

	c.printf("Store %d has %d units of %s. Would you like to update this?\n 1. Update number of units.\n 2. Return to menu.\n", storeID, p.Units, p.Name)
	choice, err := c.readChoice()
	if err != nil {
		return err
	}
	if choice != 1 {
		if choice != 2 {
			c.println("unrecognized option, returning to menu ...")
		}
		return nil
	}
	units, err := c.promptInt("Please enter the requested amount of units.\n")
	if err != nil {
		return err
	}
	warehouseID, err := c.promptInt("Please enter the warehouse ID you would like to request supplies from:\n")
	if err != nil {
		return err
	}

	receipt, err := c.svc.Inventory.PlaceSupplyRequest(ctx, c.session, inventory.SupplyRequestInput{
		StoreID:     storeID,
		ProductName: productName,
		WarehouseID: warehouseID,
		Units:       units,
	})
	if err != nil {
		return err
	}
	c.printf("Product supply request %d has been successfully placed at %d\n", receipt.Request.Number, warehouseID)
	c.printf("Store %d now has %d units of %s.\n", storeID, receipt.Product.Units, receipt.Product.Name)
	return nil
}

// ---- admin ----

func (c *Console) adminViewUser(ctx context.Context) error {
	id, err := c.promptInt("Please enter the userid of the user you wish to view:\n")
	if err != nil {
		return err
	}
	u, err := c.svc.Admin.ViewUser(ctx, c.session, id)
	if err != nil {
		return err
	}
	c.printf("User: %s (%d)\nCoordinates: %g, %g\nType: %s\n", u.Name, u.ID, u.Latitude, u.Longitude, u.Role)
	return nil
}

func (c *Console) adminUpdateUser(ctx context.Context) error {
	id, err := c.promptInt("Please enter the userid of the user you wish to update:\n")
	if err != nil {
		return err
	}
	u, err := c.svc.Admin.ViewUser(ctx, c.session, id)
	if err != nil {
		return err
	}

	var patch admin.UserPatch
	c.printf("User: %s (%d)\n", u.Name, u.ID)
	if ok, err := c.confirm("Would you like to update the user's username?"); err != nil {
		return err
	} else if ok {
		name, err := c.prompt("Please enter the new user's username: ")
		if err != nil {
			return err
		}
		patch.Name = &name
	}
	if ok, err := c.confirm("Would you like to update the user's password?"); err != nil {
		return err
	} else if ok {
		password, err := c.prompt("Please enter the new user's password: ")
		if err != nil {
			return err
		}
		patch.Password = &password
	}
	c.printf("Coordinates: %g, %g\n", u.Latitude, u.Longitude)
	if ok, err := c.confirm("Would you like to update the user's latitude?"); err != nil {
		return err
	} else if ok {
		lat, err := c.promptFloat("Please enter the new user's latitude: ")
		if err != nil {
			return err
		}
		patch.Latitude = &lat
	}
	if ok, err := c.confirm("Would you like to update the user's longitude?"); err != nil {
		return err
	} else if ok {
		long, err := c.promptFloat("Please enter the new user's longitude: ")
		if err != nil {
			return err
		}
		patch.Longitude = &long
	}
	c.printf("Type: %s\n", u.Role)
	if ok, err := c.confirm("Would you like to update the user's type?"); err != nil {
		return err
	} else if ok {
		c.println("Please choose the user's type: \n1. Customer\n2. Manager\n3. Admin")
		choice, err := c.readChoice()
		if err != nil {
			return err
		}
		roles := map[int]user.Role{1: user.RoleCustomer, 2: user.RoleManager, 3: user.RoleAdmin}
		role, known := roles[choice]
		if !known {
			c.println("Option unrecognized, changes unsaved.")
			return nil
		}
		patch.Role = &role
	}

	if _, err := c.svc.Admin.UpdateUser(ctx, c.session, id, patch); err != nil {
		return err
	}
	c.println("User updated successfully!")
	return nil
}

func (c *Console) promptProductKey(verb string) (int, string, error) {
	name, err := c.prompt(fmt.Sprintf("Please enter the productname of the product you wish to %s:\n", verb))
	if err != nil {
		return 0, "", err
	}
	storeID, err := c.promptInt(fmt.Sprintf("Please enter the storeid of the product you wish to %s:\n", verb))
	if err != nil {
		return 0, "", err
	}
	return storeID, name, nil
}

func (c *Console) adminViewProduct(ctx context.Context) error {
	storeID, name, err := c.promptProductKey("view")
	if err != nil {
		return err
	}
	p, err := c.svc.Admin.ViewProduct(ctx, c.session, storeID, name)
	if err != nil {
		return err
	}
	c.printf("Store %d has %d units of %s at $%s each.\n", p.StoreID, p.Units, p.Name, p.PricePerUnit.String())
	return nil
}

func (c *Console) adminUpdateProduct(ctx context.Context) error {
	storeID, name, err := c.promptProductKey("update")
	if err != nil {
		return err
	}
	p, err := c.svc.Admin.ViewProduct(ctx, c.session, storeID, name)
	if err != nil {
		return err
	}
	c.printf("Store %d has %d units of %s at $%s each.\n", p.StoreID, p.Units, p.Name, p.PricePerUnit.String())

	var patch inventory.ProductPatch
	if ok, err := c.confirm("Would you like to update the number of units for the product?"); err != nil {
		return err
	} else if ok {
		units, err := c.promptInt("Please enter the new number of units: ")
		if err != nil {
			return err
		}
		patch.Units = &units
	}
	if ok, err := c.confirm("Would you like to update the price per unit for the product?"); err != nil {
		return err
	} else if ok {
		price, err := c.promptDecimal("Please enter the new price per unit: ")
		if err != nil {
			return err
		}
		patch.PricePerUnit = &price
	}

	if _, err := c.svc.Admin.UpdateProduct(ctx, c.session, storeID, name, patch); err != nil {
		return err
	}
	c.println("Updates completed successfully! Returning to main menu.")
	return nil
}
